package steam

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/dorvan/moonlight-steam-shortcuts/pkg/vdf"
)

// Shortcut is one non-Steam game entry in shortcuts.vdf.
//
// Fields Steam writes but this package has no use for are carried through
// Extra, so a load/save cycle never drops them.
type Shortcut struct {
	AppID               uint32
	AppName             string
	Exe                 string
	StartDir            string
	Icon                string
	ShortcutPath        string
	LaunchOptions       string
	IsHidden            bool
	AllowDesktopConfig  bool
	AllowOverlay        bool
	OpenVR              bool
	Devkit              bool
	DevkitGameID        string
	DevkitOverrideAppID uint32
	LastPlayTime        uint32
	FlatpakAppID        string

	// Tags is nil when the entry had no tags object at all; an empty
	// non-nil slice marshals as a present but empty tags object.
	Tags []string

	// Extra holds fields not modeled above, in their original order.
	Extra vdf.Object
}

// NewShortcut returns a shortcut with the defaults Steam applies when a
// non-Steam game is added through its UI.
func NewShortcut(name, exe string) *Shortcut {
	return &Shortcut{
		AppID:              GenerateAppID(exe, name),
		AppName:            name,
		Exe:                exe,
		AllowDesktopConfig: true,
		AllowOverlay:       true,
		Tags:               []string{},
	}
}

// GenerateAppID derives the app ID Steam assigns a non-Steam shortcut:
// CRC32 of exe+name with the top bit set to mark it as a shortcut.
func GenerateAppID(exe, name string) uint32 {
	return crc32.ChecksumIEEE([]byte(exe+name)) | 0x80000000
}

// HasTag reports whether the shortcut carries tag. Tags compare exactly.
func (s *Shortcut) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends tag unless it is already present.
func (s *Shortcut) AddTag(tag string) {
	if !s.HasTag(tag) {
		s.Tags = append(s.Tags, tag)
	}
}

// ParseShortcuts decodes the entries of a shortcuts.vdf document in order.
// A document without a shortcuts object yields an empty list.
func ParseShortcuts(data []byte) ([]Shortcut, error) {
	doc, err := vdf.Parse(data)
	if err != nil {
		return nil, err
	}

	root, ok := doc.Child("shortcuts")
	if !ok {
		return nil, nil
	}

	shortcuts := make([]Shortcut, 0, len(root))
	for _, kv := range root {
		entry, ok := kv.Value.(vdf.Object)
		if !ok {
			return nil, fmt.Errorf("shortcut entry %q is not an object", kv.Key)
		}
		shortcuts = append(shortcuts, parseShortcut(entry))
	}
	return shortcuts, nil
}

// parseShortcut maps known fields onto the struct. Key casing varies between
// Steam versions, so matching is done on the lowercased key. Unknown fields,
// and known fields carrying an unexpected type, land in Extra untouched.
func parseShortcut(entry vdf.Object) Shortcut {
	var s Shortcut
	for _, kv := range entry {
		key := strings.ToLower(kv.Key)

		switch v := kv.Value.(type) {
		case string:
			switch key {
			case "appname":
				s.AppName = v
			case "exe":
				s.Exe = v
			case "startdir":
				s.StartDir = v
			case "icon":
				s.Icon = v
			case "shortcutpath":
				s.ShortcutPath = v
			case "launchoptions":
				s.LaunchOptions = v
			case "devkitgameid":
				s.DevkitGameID = v
			case "flatpakappid":
				s.FlatpakAppID = v
			default:
				s.Extra = append(s.Extra, kv)
			}

		case uint32:
			switch key {
			case "appid":
				s.AppID = v
			case "ishidden":
				s.IsHidden = v != 0
			case "allowdesktopconfig":
				s.AllowDesktopConfig = v != 0
			case "allowoverlay":
				s.AllowOverlay = v != 0
			case "openvr":
				s.OpenVR = v != 0
			case "devkit":
				s.Devkit = v != 0
			case "devkitoverrideappid":
				s.DevkitOverrideAppID = v
			case "lastplaytime":
				s.LastPlayTime = v
			default:
				s.Extra = append(s.Extra, kv)
			}

		case vdf.Object:
			if key == "tags" {
				if s.Tags == nil {
					s.Tags = []string{}
				}
				for _, tag := range v {
					if t, ok := tag.Value.(string); ok {
						s.Tags = append(s.Tags, t)
					}
				}
			} else {
				s.Extra = append(s.Extra, kv)
			}

		default:
			s.Extra = append(s.Extra, kv)
		}
	}
	return s
}

// MarshalShortcuts encodes shortcuts as a shortcuts.vdf document. Entries
// are renumbered by position, which is what Steam does on save too.
func MarshalShortcuts(shortcuts []Shortcut) ([]byte, error) {
	root := vdf.Object{}
	for i, s := range shortcuts {
		root = append(root, vdf.KeyValue{Key: strconv.Itoa(i), Value: s.toObject()})
	}
	return vdf.Marshal(vdf.Object{{Key: "shortcuts", Value: root}})
}

func (s *Shortcut) toObject() vdf.Object {
	obj := vdf.Object{
		{Key: "appid", Value: s.AppID},
		{Key: "AppName", Value: s.AppName},
		{Key: "Exe", Value: s.Exe},
		{Key: "StartDir", Value: s.StartDir},
		{Key: "icon", Value: s.Icon},
		{Key: "ShortcutPath", Value: s.ShortcutPath},
		{Key: "LaunchOptions", Value: s.LaunchOptions},
		{Key: "IsHidden", Value: boolUint32(s.IsHidden)},
		{Key: "AllowDesktopConfig", Value: boolUint32(s.AllowDesktopConfig)},
		{Key: "AllowOverlay", Value: boolUint32(s.AllowOverlay)},
		{Key: "OpenVR", Value: boolUint32(s.OpenVR)},
		{Key: "Devkit", Value: boolUint32(s.Devkit)},
		{Key: "DevkitGameID", Value: s.DevkitGameID},
		{Key: "DevkitOverrideAppID", Value: s.DevkitOverrideAppID},
		{Key: "LastPlayTime", Value: s.LastPlayTime},
		{Key: "FlatpakAppID", Value: s.FlatpakAppID},
	}

	obj = append(obj, s.Extra...)

	if s.Tags != nil {
		tags := vdf.Object{}
		for i, tag := range s.Tags {
			tags = append(tags, vdf.KeyValue{Key: strconv.Itoa(i), Value: tag})
		}
		obj = append(obj, vdf.KeyValue{Key: "tags", Value: tags})
	}

	return obj
}

func boolUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
