// Package gauss embeds the campus resource search engine in a Go program.
//
// The client wires the same stores and services the HTTP server uses, so a
// batch job or CLI sees exactly the ranking, suggestions and trending lists
// the site shows.
//
//	client, _ := gauss.New(ctx,
//	    gauss.WithPostgres(gauss.PostgresConfig{Host: "127.0.0.1", User: "gaussdb", Database: "postgres"}),
//	    gauss.WithRedisQueryLog("127.0.0.1:6379", ""),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, "database", gauss.SearchOptions{Limit: 10})
//	if len(resp.Results) == 0 && resp.Suggestion != nil {
//	    fmt.Println("did you mean", *resp.Suggestion)
//	}
//
// For tests and demos the memory driver indexes documents in process:
//
//	client, _ := gauss.New(ctx, gauss.WithMemory(docs...))
package gauss
