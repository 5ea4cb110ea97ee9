package types

// RGB is one pixel as transmitted to the strip.
type RGB struct {
	R, G, B uint8
}

var RGBOff = RGB{}
