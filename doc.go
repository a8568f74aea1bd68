// Package fetch issues HTTP requests through a fluent parameter builder and
// returns fully buffered responses.
//
// Basic Usage:
//
//	resp, err := fetch.Fetch(ctx, "https://api.example.com/users")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.StatusCode(), resp.ContentType())
//	fmt.Println(resp.Body())
//
// Parameters:
//
//	p := fetch.NewParams().
//	    WithMethod(fetch.POST).
//	    WithContentType("application/json").
//	    WithTimeout(5 * time.Second).
//	    WithQuery("dry_run", true).
//	    WithBodyString(`{"name":"gopher"}`)
//
//	resp, err := fetch.FetchWithParams(ctx, "https://api.example.com/users", p)
//
// Errors:
//
// Every failure is an *Error whose Kind tells what went wrong. Use errors.Is
// with the sentinels:
//
//	switch {
//	case errors.Is(err, fetch.ErrTimeout):
//	    // connect or read budget exceeded
//	case errors.Is(err, fetch.ErrHostNotFound):
//	    // DNS failure, refused connection, TLS failure, ...
//	}
//
// A response with a 4xx or 5xx status is not an error; check Response.OK.
//
// Defaults:
//
// Instead of mutating global state, build a Client from a Defaults value
// once at start-up and create parameters from it:
//
//	d := fetch.StandardDefaults()
//	d.Headers["User-Agent"] = "my-service/1.0"
//	client := fetch.NewClient(fetch.WithDefaults(d))
//	resp, err := client.Fetch(ctx, url, client.NewParams().WithQuery("q", "go"))
//
// Thread Safety:
//
// Client is safe for concurrent use. Params is a plain builder and must not
// be mutated concurrently. Replacing DefaultClient while fetches are running
// is not synchronized.
package fetch
