package lighting

import (
	"fmt"
	"strconv"
	"strings"

	math "github.com/chewxy/math32"
)

// Shading model tags are stored as normalized 8 bit values. Only the low nibble
// carries the tag.
const (
	tagScale = 255
	tagMask  = 0xF
)

// EncodeByteExpr returns the GLSL expression normalizing the integer expression
// intExpr to a [0,1] channel value.
func EncodeByteExpr(intExpr string) string {
	return "float(" + intExpr + ") / " + strconv.Itoa(tagScale) + ".0"
}

// DecodeByteExpr returns the GLSL expression recovering the integer stored by
// [EncodeByteExpr] in the channel expression channelExpr.
func DecodeByteExpr(channelExpr string) string {
	return "int(round(" + channelExpr + " * " + strconv.Itoa(tagScale) + ".0))"
}

// EncodeTagExpr returns the GLSL expression writing the tag of sm to a channel.
func EncodeTagExpr(sm ShadingModel) string {
	return EncodeByteExpr(strconv.Itoa(sm.Tag()))
}

// DecodeTagExpr returns the GLSL expression decoding a tag from channelExpr.
func DecodeTagExpr(channelExpr string) string {
	return DecodeByteExpr(channelExpr) + " & 0x" + strings.ToUpper(strconv.FormatInt(tagMask, 16))
}

// EncodeTag mirrors [EncodeTagExpr] on the host.
func EncodeTag(sm ShadingModel) float32 {
	return float32(sm.Tag()) / tagScale
}

// DecodeTag mirrors [DecodeTagExpr] on the host.
func DecodeTag(channel float32) (ShadingModel, error) {
	tag := int(math.Floor(channel*tagScale+0.5)) & tagMask
	sm := ShadingModel(tag)
	if err := sm.Validate(); err != nil {
		return 0, fmt.Errorf("decoding tag %d: %w", tag, err)
	}
	return sm, nil
}
