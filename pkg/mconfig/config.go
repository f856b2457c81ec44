// Package mconfig は既定値、環境変数、コマンドラインフラグの順に設定を重ねる。
package mconfig

import (
	"context"

	"github.com/miu200521358/hand2smplx/pkg/mlog"
)

const EnvPrefix = "HAND2SMPLX_"

type Config struct {
	Log     LogConfig     `koanf:"log"`
	Lang    string        `koanf:"lang" validate:"oneof=en zh ja"`
	Convert ConvertConfig `koanf:"convert"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
	Quiet bool   `koanf:"quiet"`
}

type ConvertConfig struct {
	Output       string `koanf:"output"`
	Batch        bool   `koanf:"batch"`
	InputExt     string `koanf:"input_ext" validate:"required,startswith=."`
	SkipMarker   string `koanf:"skip_marker" validate:"required"`
	OutputSuffix string `koanf:"output_suffix" validate:"required"`
	Compress     bool   `koanf:"compress"`
	Jobs         int    `koanf:"jobs" validate:"min=1,max=64"`
	Strict       bool   `koanf:"strict"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: string(mlog.INFO),
		},
		Lang: "en",
		Convert: ConvertConfig{
			InputExt:     ".npz",
			SkipMarker:   "smplx",
			OutputSuffix: "_smplx",
			Jobs:         1,
		},
	}
}

type configKey struct{}

func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext は格納された設定を返す。無ければ既定値
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return Default()
}
