// Package vdf implements the binary VDF (Valve Data Format) dialect Steam
// uses for files like userdata/<id>/config/shortcuts.vdf.
//
// The format is a sequence of typed key-value pairs. Each field starts with a
// type marker (\x00=object, \x01=string, \x02=int32, \x08=end-of-object),
// followed by a NUL-terminated key. Strings are NUL-terminated, int32 values
// are four little-endian bytes, and objects nest recursively until their end
// marker. A document body is the content of an implicit root object and is
// closed by one final end marker.
package vdf

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Binary VDF type markers.
const (
	typeObject byte = 0x00
	typeString byte = 0x01
	typeInt32  byte = 0x02
	typeEnd    byte = 0x08
)

// KeyValue is a single field of an Object. Value holds a string, a uint32 or
// a nested Object.
type KeyValue struct {
	Key   string
	Value any
}

// Object is an ordered list of key-value pairs. Order and duplicate keys are
// preserved exactly as read; lookups return the first match. Keys compare
// ASCII case-insensitively because Steam writes both spellings of some field
// names ("AppName" and "appname") in the wild.
type Object []KeyValue

func (o Object) index(key string) int {
	for i := range o {
		if strings.EqualFold(o[i].Key, key) {
			return i
		}
	}
	return -1
}

// String returns the first string value stored under key.
func (o Object) String(key string) (string, bool) {
	if i := o.index(key); i >= 0 {
		if s, ok := o[i].Value.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Uint32 returns the first int32 value stored under key.
func (o Object) Uint32(key string) (uint32, bool) {
	if i := o.index(key); i >= 0 {
		if v, ok := o[i].Value.(uint32); ok {
			return v, true
		}
	}
	return 0, false
}

// Child returns the first nested object stored under key.
func (o Object) Child(key string) (Object, bool) {
	if i := o.index(key); i >= 0 {
		if c, ok := o[i].Value.(Object); ok {
			return c, true
		}
	}
	return nil, false
}

// Has reports whether key exists, regardless of its type.
func (o Object) Has(key string) bool {
	return o.index(key) >= 0
}

// SetString upserts a string field. An existing field keeps its position and
// original key spelling; a new one is appended.
func (o *Object) SetString(key, value string) {
	o.set(key, value)
}

// SetUint32 upserts an int32 field.
func (o *Object) SetUint32(key string, value uint32) {
	o.set(key, value)
}

// SetChild upserts a nested object field.
func (o *Object) SetChild(key string, value Object) {
	o.set(key, value)
}

func (o *Object) set(key string, value any) {
	if i := o.index(key); i >= 0 {
		(*o)[i].Value = value
		return
	}
	*o = append(*o, KeyValue{Key: key, Value: value})
}

// Delete removes the first field matching key and reports whether one existed.
func (o *Object) Delete(key string) bool {
	i := o.index(key)
	if i < 0 {
		return false
	}
	*o = append((*o)[:i], (*o)[i+1:]...)
	return true
}

// Parse decodes a complete binary VDF document into its root object. The
// input is read as the body of the implicit root: for shortcuts.vdf the
// result has a single "shortcuts" child. A missing final end marker is
// tolerated; anything else malformed yields an error naming the offset.
func Parse(data []byte) (Object, error) {
	p := &parser{data: data}
	obj, err := p.object(true)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

type parser struct {
	data []byte
	pos  int
}

// object reads key-value pairs until an end marker. The implicit root object
// (top=true) may also end at EOF. Objects come back non-nil so that
// marshalling a parsed document reproduces the input byte for byte.
func (p *parser) object(top bool) (Object, error) {
	obj := Object{}
	for {
		if p.pos >= len(p.data) {
			if top {
				return obj, nil
			}
			return nil, fmt.Errorf("vdf: unexpected end of data in object at offset %d", p.pos)
		}

		marker := p.data[p.pos]
		if marker == typeEnd {
			p.pos++
			return obj, nil
		}
		p.pos++

		key, err := p.str()
		if err != nil {
			return nil, err
		}

		switch marker {
		case typeString:
			val, err := p.str()
			if err != nil {
				return nil, err
			}
			obj = append(obj, KeyValue{Key: key, Value: val})

		case typeInt32:
			if p.pos+4 > len(p.data) {
				return nil, fmt.Errorf("vdf: truncated int32 value for %q at offset %d", key, p.pos)
			}
			val := binary.LittleEndian.Uint32(p.data[p.pos : p.pos+4])
			p.pos += 4
			obj = append(obj, KeyValue{Key: key, Value: val})

		case typeObject:
			child, err := p.object(false)
			if err != nil {
				return nil, err
			}
			obj = append(obj, KeyValue{Key: key, Value: child})

		default:
			return nil, fmt.Errorf("vdf: unknown type marker 0x%02x for key %q at offset %d", marker, key, p.pos)
		}
	}
}

// str reads a NUL-terminated string.
func (p *parser) str() (string, error) {
	start := p.pos
	for p.pos < len(p.data) {
		if p.data[p.pos] == 0x00 {
			s := string(p.data[start:p.pos])
			p.pos++
			return s, nil
		}
		p.pos++
	}
	return "", fmt.Errorf("vdf: unterminated string at offset %d", start)
}

// Marshal encodes a document so that Parse(Marshal(o)) round-trips to a
// deeply equal Object, including field order and duplicate keys.
func Marshal(o Object) ([]byte, error) {
	buf, err := appendObject(nil, o)
	if err != nil {
		return nil, err
	}
	return append(buf, typeEnd), nil
}

func appendObject(buf []byte, o Object) ([]byte, error) {
	for _, kv := range o {
		if strings.ContainsRune(kv.Key, 0) {
			return nil, fmt.Errorf("vdf: key %q contains NUL byte", kv.Key)
		}

		switch v := kv.Value.(type) {
		case string:
			if strings.ContainsRune(v, 0) {
				return nil, fmt.Errorf("vdf: string value for %q contains NUL byte", kv.Key)
			}
			buf = append(buf, typeString)
			buf = appendString(buf, kv.Key)
			buf = appendString(buf, v)

		case uint32:
			buf = append(buf, typeInt32)
			buf = appendString(buf, kv.Key)
			buf = binary.LittleEndian.AppendUint32(buf, v)

		case Object:
			buf = append(buf, typeObject)
			buf = appendString(buf, kv.Key)
			var err error
			buf, err = appendObject(buf, v)
			if err != nil {
				return nil, err
			}
			buf = append(buf, typeEnd)

		default:
			return nil, fmt.Errorf("vdf: unsupported value type %T for key %q", kv.Value, kv.Key)
		}
	}
	return buf, nil
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0x00)
}
