package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

func newTestStore(t *testing.T) (*Store, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	return NewStoreForTest(c, "test:"), c
}

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	s, c := newTestStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	require.NoError(t, s.Ping(context.Background()))
}

func TestPing_Error(t *testing.T) {
	s, c := newTestStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	err := s.Ping(context.Background())
	require.Error(t, err)
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpPing, dbErr.Op)
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	_, err := NewStore(Config{})
	require.Error(t, err)
}

// --- querylog.go tests ---

func TestAppend_StreamsAndCounts(t *testing.T) {
	s, c := newTestStore(t)
	actor := int64(7)
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "XADD" && cmd[1] == "test:querylog:events" &&
					containsPair(cmd, "query", "数据库") &&
					containsPair(cmd, "actor", "7") &&
					containsPair(cmd, "addr", "10.1.2.3") &&
					containsPair(cmd, "at", "2024-05-01T08:00:00Z")
			}, "XADD event"),
			mock.Match("ZINCRBY", "test:querylog:search:terms", "1", "数据库"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("1714550400000-0")),
			mock.Result(mock.RedisString("1")),
		})

	err := s.Append(context.Background(), querylog.NewSearchEvent("数据库", &actor, "10.1.2.3", at))
	require.NoError(t, err)
}

func TestAppend_AnonymousEmptyQuerySkipsCounter(t *testing.T) {
	s, c := newTestStore(t)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "XADD" && containsPair(cmd, "actor", "")
			}, "XADD event"),
		).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisString("1-0"))})

	err := s.Append(context.Background(), querylog.NewSearchEvent("", nil, "", time.Now()))
	require.NoError(t, err)
}

func TestAppend_CounterError(t *testing.T) {
	s, c := newTestStore(t)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("1-0")),
			mock.ErrorResult(errors.New("READONLY")),
		})

	err := s.Append(context.Background(), querylog.NewSearchEvent("os", nil, "", time.Now()))
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpZIncrBy, dbErr.Op)
}

func TestTopQueries_Success(t *testing.T) {
	s, c := newTestStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZREVRANGE", "test:querylog:search:terms", "0", "2", "WITHSCORES")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisString("数据库原理"), mock.RedisString("12"),
			mock.RedisString("操作系统"), mock.RedisString("8"),
			mock.RedisString("编译原理"), mock.RedisString("3"),
		)))

	terms, err := s.TopQueries(context.Background(), &db.TopQuery{Kind: querylog.KindSearch, Limit: 3, MinLen: 2})
	require.NoError(t, err)
	assert.Equal(t, []querylog.Term{
		{Text: "数据库原理", Frequency: 12},
		{Text: "操作系统", Frequency: 8},
		{Text: "编译原理", Frequency: 3},
	}, terms)
}

func TestTopQueries_SkipsShortTermsAcrossPages(t *testing.T) {
	s, c := newTestStore(t)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("ZREVRANGE", "test:querylog:search:terms", "0", "1", "WITHSCORES")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString("c"), mock.RedisString("20"),
				mock.RedisString("go"), mock.RedisString("9"),
			))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("ZREVRANGE", "test:querylog:search:terms", "2", "3", "WITHSCORES")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString("sql"), mock.RedisString("4"),
			))),
	)

	terms, err := s.TopQueries(context.Background(), &db.TopQuery{Kind: querylog.KindSearch, Limit: 2, MinLen: 2})
	require.NoError(t, err)
	assert.Equal(t, []querylog.Term{{Text: "go", Frequency: 9}, {Text: "sql", Frequency: 4}}, terms)
}

func TestTopQueries_Empty(t *testing.T) {
	s, c := newTestStore(t)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisArray()))

	terms, err := s.TopQueries(context.Background(), &db.TopQuery{Kind: querylog.KindSearch, Limit: 5, MinLen: 1})
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestTopQueries_Error(t *testing.T) {
	s, c := newTestStore(t)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("connection reset")))

	_, err := s.TopQueries(context.Background(), &db.TopQuery{Kind: querylog.KindSearch, Limit: 5, MinLen: 1})
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpZRevRange, dbErr.Op)
}

func TestTopQueries_InvalidLimit(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.TopQueries(context.Background(), &db.TopQuery{Kind: querylog.KindSearch, Limit: 0})
	require.ErrorIs(t, err, db.ErrInvalidArgs)
}

func containsPair(cmd []string, field, value string) bool {
	for i := 0; i+1 < len(cmd); i++ {
		if cmd[i] == field && cmd[i+1] == value {
			return true
		}
	}
	return false
}
