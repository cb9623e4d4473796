package document

import "time"

// Popularity weights used to order hot resources.
const (
	ViewWeight     = 0.7
	DownloadWeight = 0.3
)

// The same weights in tenths, so ordering compares integers exactly like
// numeric arithmetic in SQL does.
const (
	viewWeightTenths     = 7
	downloadWeightTenths = 3
)

// Document is a shared resource as stored by the document store.
// The search core reads documents and never mutates them.
type Document struct {
	ID            int64     `yaml:"id"`
	Title         string    `yaml:"title"`
	Body          string    `yaml:"body"`
	ViewCount     int64     `yaml:"view_count"`
	DownloadCount int64     `yaml:"download_count"`
	CreatedAt     time.Time `yaml:"created_at"`
	CourseID      int64     `yaml:"course_id"`
	CourseName    string    `yaml:"course_name"`
	CourseTeacher string    `yaml:"course_teacher"`
	AuthorID      int64     `yaml:"author_id"`
	AuthorName    string    `yaml:"author_name"`
}

// Popularity is the weighted view/download score used by the trending page.
func (d *Document) Popularity() float64 {
	return float64(d.ViewCount)*ViewWeight + float64(d.DownloadCount)*DownloadWeight
}

// popularityTenths is Popularity scaled by ten.
func (d *Document) popularityTenths() int64 {
	return d.ViewCount*viewWeightTenths + d.DownloadCount*downloadWeightTenths
}

// MorePopular reports whether a should be listed before b on the trending page.
// Ties fall back to the lower ID so the order is total.
func MorePopular(a, b *Document) bool {
	pa, pb := a.popularityTenths(), b.popularityTenths()
	if pa != pb {
		return pa > pb
	}
	return a.ID < b.ID
}
