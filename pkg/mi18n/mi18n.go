// Package mi18n はコンソール表示用メッセージの多言語化を行う。
package mi18n

import (
	"embed"
	"encoding/json"
	"path"
	"sync/atomic"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed i18n/*.json
var messageFiles embed.FS

var (
	bundle    *i18n.Bundle
	localizer atomic.Pointer[i18n.Localizer]
)

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := messageFiles.ReadDir("i18n")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		name := path.Join("i18n", entry.Name())
		buf, err := messageFiles.ReadFile(name)
		if err != nil {
			panic(err)
		}
		if _, err := bundle.ParseMessageFileBytes(buf, name); err != nil {
			panic(err)
		}
	}

	SetLang("en")
}

// SetLang は表示言語を切り替える。未対応の言語は英語になる
func SetLang(lang string) {
	localizer.Store(i18n.NewLocalizer(bundle, lang, language.English.String()))
}

// Languages は同梱している言語タグ
func Languages() []string {
	tags := bundle.LanguageTags()
	langs := make([]string, len(tags))
	for i, tag := range tags {
		langs[i] = tag.String()
	}
	return langs
}

// T は id のメッセージを返す。見つからない場合は id をそのまま返す
func T(id string, data ...map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := localizer.Load().Localize(cfg)
	if err != nil && msg == "" {
		return id
	}
	return msg
}
