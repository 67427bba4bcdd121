// Package httpclient is the HTTP transport shared by the inference-server
// client and the CLI. It encodes JSON and multipart bodies and turns
// transport failures and non-2xx statuses into a classified *Error.
//
//	client, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:8000",
//	    Timeout: 60 * time.Second,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/v1/audio/transcriptions",
//	    Body: &httpclient.MultipartBody{
//	        Fields: map[string]string{"language": "en"},
//	        Files:  []httpclient.FileField{{FieldName: "file", FileName: "audio.wav", Data: wav}},
//	    },
//	})
//	if httpclient.IsTimeout(err) {
//	    // ...
//	}
package httpclient
