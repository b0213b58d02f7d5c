package config

import (
	"time"

	"github.com/graphbio/meshchem/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Build    BuildConfig    `yaml:"build"`
	PubChem  PubChemConfig  `yaml:"pubchem"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// BuildConfig holds snapshot build settings.
type BuildConfig struct {
	Version         int    `yaml:"version"          env:"BUILD_VERSION"          env-default:"2024"`
	DescriptorsPath string `yaml:"descriptors_path" env:"BUILD_DESCRIPTORS_PATH"`
	ChemicalsPath   string `yaml:"chemicals_path"   env:"BUILD_CHEMICALS_PATH"`

	// RootsRaw lists included sub-branches, comma-separated, by code or by
	// name ("D02" or "Organic Chemicals"); "all" selects every branch.
	RootsRaw              string `yaml:"roots"                   env:"BUILD_ROOTS"                   env-default:"all"`
	Recursive             bool   `yaml:"recursive"               env:"BUILD_RECURSIVE"               env-default:"true"`
	IncludeSMILES         bool   `yaml:"include_smiles"          env:"BUILD_INCLUDE_SMILES"          env-default:"true"`
	IncludeInChI          bool   `yaml:"include_inchi"           env:"BUILD_INCLUDE_INCHI"           env-default:"true"`
	KeepUnmappedChemicals bool   `yaml:"keep_unmapped_chemicals" env:"BUILD_KEEP_UNMAPPED_CHEMICALS" env-default:"false"`
	Verbose               bool   `yaml:"verbose"                 env:"BUILD_VERBOSE"                 env-default:"false"`

	OutputDir string `yaml:"output_dir" env:"BUILD_OUTPUT_DIR" env-default:"./snapshot"`
	Tarball   bool   `yaml:"tarball"    env:"BUILD_TARBALL"    env-default:"false"`

	Workers      int           `yaml:"workers"       env:"BUILD_WORKERS"       env-default:"8"`
	Retries      int           `yaml:"retries"       env:"BUILD_RETRIES"       env-default:"3"`
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"BUILD_RETRY_BACKOFF" env-default:"500ms"`

	// Roots is parsed from RootsRaw during validation.
	Roots []string `yaml:"-" env:"-"`
}

// PubChemConfig names the cross-reference extract files backing structure
// enrichment. Empty paths disable the corresponding facet.
type PubChemConfig struct {
	CIDMeSHPath     string `yaml:"cid_mesh_path"     env:"PUBCHEM_CID_MESH_PATH"`
	SIDMeSHPath     string `yaml:"sid_mesh_path"     env:"PUBCHEM_SID_MESH_PATH"`
	CIDSMILESPath   string `yaml:"cid_smiles_path"   env:"PUBCHEM_CID_SMILES_PATH"`
	CIDInChIKeyPath string `yaml:"cid_inchikey_path" env:"PUBCHEM_CID_INCHIKEY_PATH"`
}

// DatabaseConfig holds PostgreSQL connection settings for the snapshot
// loader. DSN is required only by commands that actually touch the DB.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Settings converts the build configuration into the immutable settings
// value the pipeline consumes. Call after Validate.
func (b BuildConfig) Settings() domain.Settings {
	return domain.Settings{
		Version:               b.Version,
		Roots:                 b.Roots,
		Recursive:             b.Recursive,
		IncludeSMILES:         b.IncludeSMILES,
		IncludeInChI:          b.IncludeInChI,
		KeepUnmappedChemicals: b.KeepUnmappedChemicals,
		Verbose:               b.Verbose,
	}
}

// EnrichmentEnabled reports whether any extract file is configured.
func (p PubChemConfig) EnrichmentEnabled() bool {
	return p.CIDMeSHPath != "" || p.SIDMeSHPath != "" ||
		p.CIDSMILESPath != "" || p.CIDInChIKeyPath != ""
}
