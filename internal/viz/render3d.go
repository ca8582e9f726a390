package viz

import (
	"math"
	"sort"

	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/mesh"
	"github.com/san-kum/skyplane/internal/render"
)

// Camera is a perspective camera on the +Z axis looking toward -Z.
type Camera struct {
	Position   dynamo.Vec3
	Projection render.Projection
}

func NewCamera(proj render.Projection, z float64) *Camera {
	return &Camera{Position: dynamo.Vec3{Z: z}, Projection: proj}
}

// Project converts world coordinates to sub-pixel screen coordinates on a
// sw x sh surface. Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (float64, float64, float64, bool) {
	rel := p.Sub(c.Position)
	depth := -rel.Z
	if depth < c.Projection.Near || (c.Projection.Far > 0 && depth > c.Projection.Far) {
		return 0, 0, depth, false
	}
	f := c.Projection.Focal()
	aspect := c.Projection.Aspect
	if aspect <= 0 {
		aspect = float64(sw) / math.Max(1, float64(sh))
	}
	ndcX := rel.X / depth * f / aspect
	ndcY := rel.Y / depth * f
	sx := (ndcX + 1) / 2 * float64(sw)
	sy := (1 - ndcY) / 2 * float64(sh)
	return sx, sy, depth, true
}

type projected struct {
	x, y  [3]float64
	depth float64
	tri   mesh.Triangle
}

// DrawMesh paints world-space triangles far to near with flat lighting.
func DrawMesh(c *Canvas, tris []mesh.Triangle, cam *Camera, light mesh.Lighting, tex *mesh.Texture) int {
	if c == nil || cam == nil {
		return 0
	}
	sw, sh := c.DotSize()
	proj := make([]projected, 0, len(tris))
	for _, t := range tris {
		var p projected
		ok := true
		for i, v := range [3]dynamo.Vec3{t.A, t.B, t.C} {
			x, y, d, vis := cam.Project(v, sw, sh)
			if !vis {
				ok = false
				break
			}
			p.x[i], p.y[i] = x, y
			p.depth += d / 3
		}
		if ok {
			p.tri = t
			proj = append(proj, p)
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, p := range proj {
		c.FillTriangle(p.x[0], p.y[0], p.x[1], p.y[1], p.x[2], p.y[2], light.Shade(p.tri, tex))
	}
	return len(proj)
}
