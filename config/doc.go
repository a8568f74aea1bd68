// Package config loads fetch client defaults from YAML or JSON files.
//
// A file looks like this:
//
//	followRedirects: true
//	useCaches: false
//	connectionTimeout: 5s    # Go duration, or bare milliseconds: 5000
//	readTimeout: 30s
//	variables:
//	  token: s3cr3t
//	headers:
//	  User-Agent: my-service/1.0
//	  Authorization: Bearer {{token}}
//
// Basic Usage:
//
//	defaults, err := config.Load("fetch.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := fetch.NewClient(fetch.WithDefaults(defaults))
//
// Keys left out of the file keep the values of fetch.StandardDefaults.
package config
