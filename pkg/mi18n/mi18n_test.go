package mi18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	t.Cleanup(func() { SetLang("en") })

	testCases := []struct {
		name string
		lang string
		id   string
		data map[string]any
		want string
	}{
		{name: "english template", lang: "en", id: Dimensions, data: map[string]any{"B": 2, "T": 20},
			want: "Dimensions: B=2 (trajectories), T=20 (frames)"},
		{name: "chinese side", lang: "zh", id: SideLeft, want: "左手"},
		{name: "japanese summary", lang: "ja", id: BatchSummary, data: map[string]any{"Succeeded": 1, "Total": 3},
			want: "一括変換完了: 1/3 成功"},
		{name: "command failure names the command", lang: "en", id: CommandFailed,
			data: map[string]any{"Command": "verify", "Error": "bad"}, want: "Command verify failed: bad"},
		{name: "japanese command failure", lang: "ja", id: CommandFailed,
			data: map[string]any{"Command": "inspect", "Error": "bad"}, want: "コマンド inspect 失敗: bad"},
		{name: "unknown language falls back", lang: "fr", id: SideRight, want: "right"},
		{name: "unknown id", lang: "en", id: "NoSuchMessage", want: "NoSuchMessage"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			SetLang(tc.lang)
			if tc.data != nil {
				assert.Equal(t, tc.want, T(tc.id, tc.data))
			} else {
				assert.Equal(t, tc.want, T(tc.id))
			}
		})
	}
}

func TestLanguages(t *testing.T) {
	assert.ElementsMatch(t, []string{"en", "zh", "ja"}, Languages())
}
