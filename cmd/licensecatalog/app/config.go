package app

import "time"

type CatalogSource string

const (
	CatalogSourceFile   CatalogSource = "file"
	CatalogSourceGithub CatalogSource = "github"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeMemLRU CacheType = "memlru"
	CacheTypeRedis  CacheType = "redis"
)

type TracerType string

const (
	ZipkinTracer TracerType = "zipkin"
	JaegerTracer TracerType = "jaeger"
)

// Config is a top-level app config
type Config struct {
	// Debug is a flag to enable debug logging
	Debug bool

	Catalog Catalog

	// Cache is optional cache configuration.
	// Cache will not be used if not present.
	Cache *Cache

	Server Server

	// HealthServer optionally serves /health on a separate listener.
	// When not set health is mounted on the main server.
	HealthServer *Server

	// Trace is optional tracing/telemetry configuration.
	// Tracing will not be enabled if option not provided.
	Trace *Trace
}

// Catalog selects where the license list and the synonym list come from.
type Catalog struct {
	// Source is a dataset source type
	// Available types:
	// * file (LicensesFile required, SynonymsFile optional)
	// * github
	Source CatalogSource

	// LicensesFile is a path to the license list json document
	LicensesFile string

	// SynonymsFile is a path to the synonym list json document
	SynonymsFile string

	// WatchFiles rebuilds the catalog when the dataset files change.
	// Only meaningful with the file source.
	WatchFiles bool

	// VersionConstraint is an optional semver constraint for licenseListVersion
	// (for syntax see https://github.com/Masterminds/semver/#checking-version-constraints).
	// Startup fails when the loaded list doesn't satisfy it.
	VersionConstraint string `toml:",omitempty"`

	Github Github

	// ExtraSynonyms are operator-supplied synonyms merged into the
	// synonym list before the catalog is built.
	ExtraSynonyms []SynonymOverride
}

// Github contains dataset repository configuration
type Github struct {
	// Owner and Repo locate the dataset repository.
	// Default is spdx/license-list-data.
	Owner string
	Repo  string

	// Ref is an optional git reference (tag or branch) pinning the dataset
	Ref string

	// LicensesPath and SynonymsPath locate the documents inside the repo
	LicensesPath string
	SynonymsPath string

	// AccessToken is optional github access token
	// It's needed to access private repos or increase rate-limit
	AccessToken MaskedString

	// BaseURL is an optional github enterprise api url
	BaseURL MaskedURL
}

// SynonymOverride adds alternate names/urls for an existing license id
type SynonymOverride struct {
	// LicenseID must be present in the loaded license list
	LicenseID string

	// Names are alternate display names
	Names []string

	// URLs are alternate urls
	URLs []string
}

// Cache represents cache configuration
type Cache struct {
	// Type is a cache type
	// Available types:
	// * memory
	// * memlru (SizeItems required)
	// * redis
	Type CacheType

	// SizeItems is a maximum items count in memory lru cache
	SizeItems int

	Redis Redis
}

// Redis represents redis configuration
type Redis struct {
	// Addrs is a slice of connection addresses
	// If more than one provided cluster client will be used
	Addrs []string

	// TTL is optional ttl for keys. Keys will not expire when TTL is not set.
	TTL time.Duration

	// PoolSize is a connection pool size. Default value is 10
	PoolSize int

	// DB allows to select db number
	DB int

	// Password is an optional password
	Password string

	// ConnectTimeout is an optional connect timeout
	ConnectTimeout time.Duration

	// ReadTimeout is an optional timeout to receive data
	ReadTimeout time.Duration

	// WriteTimeout is an optional timeout to send data
	WriteTimeout time.Duration
}

// Server represents http-server configuration
type Server struct {
	// ListenAddr is a listen address (i.e. ':8080')
	ListenAddr string
	// EnablePprof adds pprof handlers to server at /pprof
	EnablePprof bool
}

// Trace represents opentelemetry configuration
type Trace struct {
	// CollectorAddress is a traces collector address
	CollectorAddress string

	// TracerType is a trace collector type. Available types:
	// * zipkin
	// * jaeger
	TracerType TracerType

	// SampleProbability samples a given fraction of traces. Fractions >= 1 or <= 0 will
	// always sample. If the parent span is sampled, then it's child spans will
	// automatically be sampled
	SampleProbability float64
}
