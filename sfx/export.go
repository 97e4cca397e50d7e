package sfx

import "strings"

// ExportConstants returns all currently loaded effect ids in a format
// that can be used to generate go constants: "reload-heavy" maps from
// the identifier ReloadHeavy.
func (l *Library) ExportConstants() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	export := make(map[string]string, len(l.loaded))
	for id := range l.loaded {
		var b strings.Builder
		capsNext := true
		for i := 0; i < len(id); i++ {
			c := id[i]
			switch c {
			case '-', '_', '.', ' ':
				capsNext = true
			default:
				if capsNext {
					c = strings.ToUpper(string(c))[0]
					capsNext = false
				}
				b.WriteByte(c)
			}
		}
		export[b.String()] = string(id)
	}
	return export
}
