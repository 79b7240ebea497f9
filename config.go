package jsonbind

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonbind/i18n"
)

// Config is the YAML form of BindOpt.
//
//	watch: [matchingProp1, editSettings]
//	maxDepth: 32
//	duplicateKeys: warn     # ignore | warn | error
//	unknownKeys: strict     # ignore | strict
//	driver: relaxed         # relaxed | json | gojson
//	language: ja            # en | ja
//	failFast: false
//	strictScalars: false
type Config struct {
	Watch         []string `yaml:"watch"`
	MaxDepth      int      `yaml:"maxDepth"`
	DuplicateKeys string   `yaml:"duplicateKeys"`
	UnknownKeys   string   `yaml:"unknownKeys"`
	Driver        string   `yaml:"driver"`
	Language      string   `yaml:"language"`
	FailFast      bool     `yaml:"failFast"`
	StrictScalars bool     `yaml:"strictScalars"`
}

// LoadConfig decodes one YAML document. Unknown keys are rejected; an empty
// document yields the zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("jsonbind: load config: %w", err)
	}
	return cfg, nil
}

// BindOpt converts the configuration into binder options.
func (c Config) BindOpt() (BindOpt, error) {
	opt := BindOpt{
		Watch:         c.Watch,
		Strictness:    Strictness{MaxDepth: c.MaxDepth},
		FailFast:      c.FailFast,
		StrictScalars: c.StrictScalars,
	}
	switch c.DuplicateKeys {
	case "", "ignore":
		opt.Strictness.OnDuplicateKey = Ignore
	case "warn":
		opt.Strictness.OnDuplicateKey = Warn
	case "error":
		opt.Strictness.OnDuplicateKey = Error
	default:
		return BindOpt{}, fmt.Errorf("jsonbind: invalid duplicateKeys %q", c.DuplicateKeys)
	}
	switch c.UnknownKeys {
	case "", "ignore":
		opt.Unknown = UnknownIgnore
	case "strict":
		opt.Unknown = UnknownStrict
	default:
		return BindOpt{}, fmt.Errorf("jsonbind: invalid unknownKeys %q", c.UnknownKeys)
	}
	d, err := DriverByName(c.Driver)
	if err != nil {
		return BindOpt{}, err
	}
	opt.Driver = d
	if c.Language != "" {
		opt.Translator = i18n.Dict(c.Language)
	}
	return opt, nil
}
