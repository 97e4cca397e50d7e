package playlist

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/tools/godoc/vfs"

	"github.com/aldermoor/audial"
	"github.com/aldermoor/audial/internal/log"
)

// LoadFolder loads playlists from a regular folder.
// See Load for more information.
func LoadFolder(e *audial.Engine, ch *audial.Channel, folder string) (*Manager, error) {
	return Load(e, ch, vfs.OS(folder))
}

// Load loads playlists from a virtual filesystem and binds them to the
// given channel. At the root of the filesystem there must be a
// "playlist.json" file, which references the files to be loaded:
//
//	[
//	  {"Id": "dungeon", "Tracks": [
//	    {"Path": "depths.ogg", "Name": "Depths", "Author": "...", "Volume": 0.6},
//	    {"Path": "embers.ogg", "Name": "Embers"}
//	  ]}
//	]
//
// Track paths go to Engine.Load verbatim, so they must be relative to
// the engine's asset filesystem. The files decode in the background; a
// playlist started before its tracks settle begins once they do.
func Load(e *audial.Engine, ch *audial.Channel, fileSystem vfs.Opener) (*Manager, error) {
	start := time.Now()
	playlists, err := loadRegistry(fileSystem, "playlist.json")
	if err != nil {
		return nil, err
	}
	lists := make(map[Id]*PlayList, len(playlists))
	for _, pl := range playlists {
		if len(pl.Tracks) == 0 {
			return nil, fmt.Errorf("playlist: %s has no tracks", pl.Id)
		}
		for _, track := range pl.Tracks {
			if track.Volume == 0 {
				track.Volume = 1
			}
			track.handle = e.Load(track.Path)
		}
		lists[pl.Id] = pl
	}
	log.Info("playlist: registry loaded",
		"playlists", len(lists), "elapsed", time.Since(start))
	return &Manager{ch: ch, crossfade: DefaultCrossfade, lists: lists}, nil
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

func loadRegistry(fs vfs.Opener, path string) (registry []*PlayList, err error) {
	data, err := readFile(fs, path)
	if err != nil {
		err = fmt.Errorf("playlist: failed to open %s: %w", path, err)
		return
	}
	err = json.Unmarshal(data, &registry)
	if err != nil {
		err = fmt.Errorf("playlist: failed to parse %s: %w", path, err)
	}
	return
}
