package sfx

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/tools/godoc/vfs"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/internal/log"
)

// LoadFolder loads sound effects from a regular folder.
// See Load for more information.
func LoadFolder(e *audial.Engine, ch *audial.Channel, folder string) (*Library, error) {
	return Load(e, ch, vfs.OS(folder))
}

// Load loads sound effects from a virtual filesystem and binds them to
// the given channel. At the root of the filesystem there must be an
// "sfx.json" file, which references the files to be loaded:
//
//	[
//	  {"Id": "hit", "Volume": 0.9, "ThrottlingMs": 60, "Variations": [
//	    {"Path": "hit_a.wav", "Probability": 2},
//	    {"Path": "hit_b.wav", "Probability": 1, "Volume": 0.8}
//	  ]}
//	]
//
// Variant paths go to Engine.Load verbatim, so they must be relative to
// the engine's asset filesystem. The files decode in the background; an
// effect played before its file settles is simply deferred. Files shared
// between variants are only decoded once.
func Load(e *audial.Engine, ch *audial.Channel, fileSystem vfs.Opener) (*Library, error) {
	start := time.Now()
	soundEffects, err := loadRegistry(fileSystem, "sfx.json")
	if err != nil {
		return nil, err
	}
	effects := make(map[Id]*Sfx, len(soundEffects))
	for _, eff := range soundEffects {
		if eff.Volume == 0 {
			eff.Volume = 1
		}
		for _, v := range eff.Variations {
			if v.Volume == 0 {
				v.Volume = 1
			}
			if v.Probability == 0 {
				v.Probability = 1
			}
			v.handle = e.Load(v.Path)
		}
		effects[eff.Id] = eff
	}
	log.Info("sfx: registry loaded",
		"effects", len(effects), "elapsed", time.Since(start))
	return &Library{ch: ch, loaded: effects}, nil
}

func readFile(fs vfs.Opener, path string) (data []byte, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return
	}
	data, err = io.ReadAll(file)
	_ = file.Close()
	return
}

func loadRegistry(fs vfs.Opener, path string) (registry []*Sfx, err error) {
	data, err := readFile(fs, path)
	if err != nil {
		err = fmt.Errorf("sfx: failed to open %s: %w", path, err)
		return
	}
	err = json.Unmarshal(data, &registry)
	if err != nil {
		err = fmt.Errorf("sfx: failed to parse %s: %w", path, err)
	}
	return
}
