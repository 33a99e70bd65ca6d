// Command diffyd runs the dffy HTTP server: it accepts a pair of uploaded
// files, stores them, and serves unified, split and structured diffs of
// them at a short content-addressable URL.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.etcd.io/bbolt"

	"github.com/dffy/linediff/pkg/db"
	httpserver "github.com/dffy/linediff/pkg/http"
	"github.com/dffy/linediff/pkg/storage"
)

type optsType struct {
	listenAddr     string
	publicURL      string
	dbFile         string
	s3Endpoint     string
	s3AccessKey    string
	s3AccessSecret string
	s3Bucket       string
	s3Secure       string
	cacheMaxSizeMB string
}

func defaultEnv(s, def string) string {
	v, ok := os.LookupEnv(s)
	if ok {
		return v
	}
	return def
}

func stringVar(p *string, fg, defaultValue, usage string) {
	ev := strings.ReplaceAll(strings.ToUpper(fg), "-", "_")
	flag.StringVar(p, fg, defaultEnv(ev, defaultValue), usage+". env var: "+ev)
}

func main() {
	var opts optsType
	stringVar(&opts.listenAddr, "listen-addr", ":18844", "listen address for the web server")
	stringVar(&opts.publicURL, "public-url", "localhost:18844", "url for the server, used in the curl example")
	stringVar(&opts.dbFile, "db-file", "data/db.bolt", "the file used for the database. "+
		"this will be a cache (if used together with s3) or the permanent database")
	stringVar(&opts.s3Endpoint, "s3-endpoint", "", "s3 endpoint")
	stringVar(&opts.s3AccessKey, "s3-access-key", "", "s3 access key")
	stringVar(&opts.s3AccessSecret, "s3-access-secret", "", "s3 access secret")
	stringVar(&opts.s3Bucket, "s3-bucket", "", "s3 bucket")
	stringVar(&opts.s3Secure, "s3-secure", "true", "use TLS for the s3 connection")
	stringVar(&opts.cacheMaxSizeMB, "cache-max-size-mb", "256", "max size in MB of the local cache, when s3 storage is used")
	flag.Parse()

	boltDB, err := bbolt.Open(opts.dbFile, 0o600, nil)
	if err != nil {
		panic(fmt.Errorf("db open error: %w", err))
	}

	store, err := newStorage(opts, boltDB)
	if err != nil {
		panic(fmt.Errorf("storage init error: %w", err))
	}

	srv := &httpserver.Server{
		PublicURL: opts.publicURL,
		Storage:   store,
		DB:        &db.DB{DB: boltDB},
	}

	fmt.Println("listening on", opts.listenAddr)
	panic(http.ListenAndServe(opts.listenAddr, srv.Router()))
}

// newStorage builds the permanent storage backend: bbolt-backed by default,
// or an S3-compatible bucket (fronted by a bbolt-backed LRU cache) once
// s3-endpoint is set.
func newStorage(opts optsType, boltDB *bbolt.DB) (storage.Storage, error) {
	if opts.s3Endpoint == "" {
		return storage.NewDBStorage(boltDB, []byte("storage")), nil
	}

	secure, err := strconv.ParseBool(opts.s3Secure)
	if err != nil {
		secure = true
	}
	permanent, err := storage.NewMinioStorage(storage.MinioConfig{
		Endpoint:  opts.s3Endpoint,
		AccessKey: opts.s3AccessKey,
		SecretKey: opts.s3AccessSecret,
		Bucket:    opts.s3Bucket,
		Secure:    secure,
	})
	if err != nil {
		return nil, err
	}

	cacheMaxMB, err := strconv.Atoi(opts.cacheMaxSizeMB)
	if err != nil || cacheMaxMB <= 0 {
		cacheMaxMB = 256
	}
	cache := storage.NewDBStorage(boltDB, []byte("cache")).(storage.ListStorage)
	return storage.NewCachedStorage(cache, permanent, uint64(cacheMaxMB)<<20)
}
