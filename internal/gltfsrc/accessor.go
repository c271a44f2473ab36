package gltfsrc

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf/modeler"
)

// readFloats reads accessor idx and flattens it into float32 components.
// Normalized integer accessors are mapped to [0,1] or [-1,1].
func (s *Source) readFloats(idx *uint32) ([]float32, error) {
	if idx == nil {
		return nil, errors.New("missing accessor")
	}
	if int(*idx) >= len(s.doc.Accessors) {
		return nil, errors.Errorf("accessor %d of %d", *idx, len(s.doc.Accessors))
	}
	acr := s.doc.Accessors[*idx]

	data, err := modeler.ReadAccessor(s.doc, acr, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "read accessor %d", *idx)
	}
	out, err := flatten(data, acr.Normalized)
	if err != nil {
		return nil, errors.Wrapf(err, "accessor %d", *idx)
	}
	return out, nil
}

func flatten(data interface{}, normalized bool) ([]float32, error) {
	switch v := data.(type) {
	case []float32:
		return v, nil
	case [][2]float32:
		return flat2(v), nil
	case [][3]float32:
		return flat3(v), nil
	case [][4]float32:
		return flat4(v), nil
	case []int8:
		return convert(v, normalized, snorm8), nil
	case []uint8:
		return convert(v, normalized, unorm8), nil
	case []int16:
		return convert(v, normalized, snorm16), nil
	case []uint16:
		return convert(v, normalized, unorm16), nil
	case [][4]int8:
		return convert(flat4(v), normalized, snorm8), nil
	case [][4]uint8:
		return convert(flat4(v), normalized, unorm8), nil
	case [][4]int16:
		return convert(flat4(v), normalized, snorm16), nil
	case [][4]uint16:
		return convert(flat4(v), normalized, unorm16), nil
	}
	return nil, errors.Errorf("unsupported accessor data %T", data)
}

func flat2[T any](v [][2]T) []T {
	out := make([]T, 0, len(v)*2)
	for _, a := range v {
		out = append(out, a[:]...)
	}
	return out
}

func flat3[T any](v [][3]T) []T {
	out := make([]T, 0, len(v)*3)
	for _, a := range v {
		out = append(out, a[:]...)
	}
	return out
}

func flat4[T any](v [][4]T) []T {
	out := make([]T, 0, len(v)*4)
	for _, a := range v {
		out = append(out, a[:]...)
	}
	return out
}

type integer interface {
	~int8 | ~uint8 | ~int16 | ~uint16
}

func convert[T integer](v []T, normalized bool, norm func(T) float32) []float32 {
	out := make([]float32, len(v))
	for i, c := range v {
		if normalized {
			out[i] = norm(c)
		} else {
			out[i] = float32(c)
		}
	}
	return out
}

func snorm8(c int8) float32    { return max(float32(c)/127, -1) }
func unorm8(c uint8) float32   { return float32(c) / 255 }
func snorm16(c int16) float32  { return max(float32(c)/32767, -1) }
func unorm16(c uint16) float32 { return float32(c) / 65535 }
