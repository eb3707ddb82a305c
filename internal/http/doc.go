// Package http provides the request primitive used to fetch assets from the
// remote origin.
//
// The client performs exactly one GET per call. It does not retry and does
// not interpret status codes: retry policy and response classification belong
// to the downloader, which sees every attempt.
//
// # Usage
//
//	client := http.NewClient(Options{
//	    Timeout:   20 * time.Second,
//	    UserAgent: "BlissDownloader/1.0",
//	})
//
//	resp, err := client.Get(ctx, url)
//	if err != nil {
//	    // transport failure or timeout
//	}
//	defer resp.Body.Close()
//	// resp.StatusCode, resp.ContentType
package http
