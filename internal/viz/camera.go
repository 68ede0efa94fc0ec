package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is an orthographic view of the scene. The default looks straight
// down the Y axis, so orbits in the XZ plane appear face on.
type Camera struct {
	Yaw, Pitch float64
	Zoom       float64
	Target     mgl64.Vec3
	// Extent is the world distance shown from the centre to the nearest edge
	// at zoom 1.
	Extent float64
}

func NewCamera(extent float64) *Camera {
	if !(extent > 0) {
		extent = 1
	}
	return &Camera{Pitch: math.Pi / 2, Zoom: 1, Extent: extent}
}

func (c *Camera) Rotate(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = mgl64.Clamp(c.Pitch+dpitch, -math.Pi/2, math.Pi/2)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(50, c.Zoom*1.25) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.02, c.Zoom/1.25) }

// View is the world-to-camera transform.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.HomogRotate3DX(c.Pitch).
		Mul4(mgl64.HomogRotate3DY(c.Yaw)).
		Mul4(mgl64.Translate3D(-c.Target.X(), -c.Target.Y(), -c.Target.Z()))
}

// Scale is the number of dots per world unit on a canvas of w by h dots.
func (c *Camera) Scale(w, h int) float64 {
	half := float64(min(w, h)) / 2
	return half / c.Extent * c.Zoom
}

// Project maps a world point to dot coordinates. ok is false when the point
// falls outside the canvas.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (x, y int, ok bool) {
	v := c.View().Mul4x1(p.Vec4(1)).Vec3()
	s := c.Scale(w, h)

	x = int(math.Round(float64(w)/2 + v.X()*s))
	y = int(math.Round(float64(h)/2 - v.Y()*s))
	return x, y, x >= 0 && y >= 0 && x < w && y < h
}
