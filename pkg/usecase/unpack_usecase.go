package usecase

import (
	"github.com/spf13/afero"

	"github.com/miu200521358/hand2smplx/pkg/mlog"
	"github.com/miu200521358/hand2smplx/pkg/model"
	"github.com/miu200521358/hand2smplx/pkg/npzio"
)

// Unpack npzデータを読み込んで、配列に展開する
func Unpack(fs afero.Fs, path string) (*model.RawBundle, error) {
	raw, err := npzio.Load(fs, path)
	if err != nil {
		mlog.E("[%s] Failed to unpack: %v", path, err)
		return nil, err
	}

	if mlog.IsDebug() {
		for _, name := range raw.Names() {
			a, _ := raw.Get(name)
			mlog.D("[%s] %s %s %s", path, name, a.ShapeString(), a.DType.Descr())
		}
	}

	return raw, nil
}
