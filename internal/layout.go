package internal

import (
	"errors"
	"fmt"

	"github.com/chrisconley/peitho/internal/tensor"
)

// ErrUnsupportedRank reports a media tensor whose rank is neither 2 nor 3.
var ErrUnsupportedRank = errors.New("unsupported media tensor rank")

// MediaLayout captures a media tensor's geometry: national models hold media
// of shape (time, channel), geo models of shape (time, channel, geo). Every
// plate size and broadcast decision in the model derives from it.
type MediaLayout struct {
	dataSize int
	channels int
	geos     int
	geoMode  bool
}

// NewMediaLayout reads the geometry of a media tensor.
func NewMediaLayout(media *tensor.Dense) (MediaLayout, error) {
	if media == nil {
		return MediaLayout{}, fmt.Errorf("media tensor is required")
	}
	shape := media.Shape()
	switch len(shape) {
	case 2:
		return MediaLayout{dataSize: shape[0], channels: shape[1], geos: 1}, nil
	case 3:
		return MediaLayout{dataSize: shape[0], channels: shape[1], geos: shape[2], geoMode: true}, nil
	default:
		return MediaLayout{}, fmt.Errorf("%w: rank %d, want 2 (time, channel) or 3 (time, channel, geo)", ErrUnsupportedRank, len(shape))
	}
}

// DataSize returns the number of timesteps.
func (l MediaLayout) DataSize() int {
	return l.dataSize
}

// Channels returns the number of media channels.
func (l MediaLayout) Channels() int {
	return l.channels
}

// Geos returns the number of geos, one for a national model.
func (l MediaLayout) Geos() int {
	return l.geos
}

// GeoShape returns the trailing geo dimensions: empty for a national model,
// (geos) for a geo model.
func (l MediaLayout) GeoShape() []int {
	if !l.geoMode {
		return nil
	}
	return []int{l.geos}
}

// IsGeo reports whether the media tensor carries a geo axis.
func (l MediaLayout) IsGeo() bool {
	return l.geoMode
}

// ExpandForGeo appends the trailing broadcast axis to a per-channel parameter
// in geo mode, turning shape (channel) into (channel, 1) so it aligns against
// (channel, geo) media slices. National parameters pass through untouched.
func (l MediaLayout) ExpandForGeo(d *tensor.Dense) *tensor.Dense {
	if !l.geoMode {
		return d
	}
	return d.ExpandTail()
}
