package hand

// Landmark indices follow the MediaPipe 21-point hand model. Index 0 is the
// wrist; each finger contributes four joints ordered base to tip.
const (
	Wrist = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	PinkyMCP
	PinkyPIP
	PinkyDIP
	PinkyTip

	// LandmarkCount is the number of landmarks per hand per frame.
	LandmarkCount = 21
)

// LandmarkNames maps landmark indices to their canonical names.
var LandmarkNames = [LandmarkCount]string{
	"WRIST",
	"THUMB_CMC", "THUMB_MCP", "THUMB_IP", "THUMB_TIP",
	"INDEX_MCP", "INDEX_PIP", "INDEX_DIP", "INDEX_TIP",
	"MIDDLE_MCP", "MIDDLE_PIP", "MIDDLE_DIP", "MIDDLE_TIP",
	"RING_MCP", "RING_PIP", "RING_DIP", "RING_TIP",
	"PINKY_MCP", "PINKY_PIP", "PINKY_DIP", "PINKY_TIP",
}

// Finger identifies one of the five fingers.
type Finger string

const (
	FingerThumb  Finger = "thumb"
	FingerIndex  Finger = "index"
	FingerMiddle Finger = "middle"
	FingerRing   Finger = "ring"
	FingerLittle Finger = "little"
)

// AllFingers lists the fingers in anatomical order.
var AllFingers = []Finger{FingerThumb, FingerIndex, FingerMiddle, FingerRing, FingerLittle}

// fingerJoints maps each finger to its four landmark indices, base to tip.
var fingerJoints = map[Finger][4]int{
	FingerThumb:  {ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
	FingerIndex:  {IndexMCP, IndexPIP, IndexDIP, IndexTip},
	FingerMiddle: {MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	FingerRing:   {RingMCP, RingPIP, RingDIP, RingTip},
	FingerLittle: {PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}

// TipIndex returns the fingertip landmark index for a finger.
// The second return is false for an unknown finger.
func TipIndex(f Finger) (int, bool) {
	joints, ok := fingerJoints[f]
	if !ok {
		return 0, false
	}
	return joints[3], true
}

// Joints returns the four landmark indices of a finger, base to tip.
func Joints(f Finger) ([4]int, bool) {
	joints, ok := fingerJoints[f]
	return joints, ok
}

// ValidFinger reports whether f names one of the five fingers.
func ValidFinger(f Finger) bool {
	_, ok := fingerJoints[f]
	return ok
}
