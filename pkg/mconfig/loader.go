package mconfig

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// フラグ名と設定キーの対応
var flagKeys = map[string]string{
	"log-level": "log.level",
	"log-json":  "log.json",
	"quiet":     "log.quiet",
	"lang":      "lang",
	"output":    "convert.output",
	"batch":     "convert.batch",
	"compress":  "convert.compress",
	"jobs":      "convert.jobs",
	"strict":    "convert.strict",
}

// Load は既定値 < 環境変数 < 明示されたフラグ の順に設定を読み込み、検証する。flags は nil でもよい
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(*Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(key), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if flags != nil {
		var setErr error
		flags.Visit(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok || setErr != nil {
				return
			}
			setErr = k.Set(key, f.Value.String())
		})
		if setErr != nil {
			return nil, fmt.Errorf("failed to apply flags: %w", setErr)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := validateCustom(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// validateCustom はフィールドをまたぐ制約を確認する
func validateCustom(cfg *Config) error {
	suffix := strings.ToLower(cfg.Convert.OutputSuffix)
	marker := strings.ToLower(cfg.Convert.SkipMarker)
	if !strings.Contains(suffix, marker) {
		return fmt.Errorf("convert.output_suffix %q must contain convert.skip_marker %q",
			cfg.Convert.OutputSuffix, cfg.Convert.SkipMarker)
	}
	return nil
}

// transformEnvKey は HAND2SMPLX_CONVERT_OUTPUT_SUFFIX を convert.output_suffix に変換する
func transformEnvKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_'
	})
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return parts[0] + "." + strings.Join(parts[1:], "_")
}
