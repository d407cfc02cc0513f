// Package contour implements ContourTracer: extraction of closed level
// sets of a 2-D field, ordered in poloidal angle (spec §4.4). Like
// critpoint, this is a pure function module with no dependency on the rest
// of the core, so it can be exercised directly against analytic fields.
package contour

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/tokasim/critpoint"
	"github.com/cpmech/tokasim/field2d"
)

// Point is a poloidal-plane coordinate.
type Point struct{ R, Z float64 }

// Polyline is an ordered list of points; for a closed contour, the first
// and last points coincide (spec §3 FluxSurface invariant).
type Polyline struct {
	Points []Point
	Closed bool
}

// Trace extracts, for each requested level, the ordered closed polylines of
// Field(R,Z) = level. If o is non-nil, only the single polyline enclosing o
// is returned per level (spec §4.4).
func Trace(f *field2d.Field2D, levels []float64, o *critpoint.OXPoint) ([][]Polyline, error) {
	out := make([][]Polyline, len(levels))
	r, z := f.GridSpacing()
	for k, level := range levels {
		segs, err := marchingSquares(f, r, z, level)
		if err != nil {
			return nil, chk.Err("contour: Trace: level %g: %v", level, err)
		}
		lines := stitch(segs)
		if o != nil {
			lines = keepEnclosing(lines, Point{o.R, o.Z})
		}
		var refR, refZ float64
		if o != nil {
			refR, refZ = o.R, o.Z
		} else if len(lines) > 0 {
			refR, refZ = centroid(lines[0])
		}
		for i := range lines {
			reorderByPoloidalAngle(&lines[i], refR, refZ)
		}
		out[k] = lines
	}
	return out, nil
}

type segment struct{ a, b Point }

// marchingSquares returns the raw (unstitched) line segments where
// f(R,Z)=level, one or two per grid cell, via linear interpolation along
// crossing edges.
func marchingSquares(f *field2d.Field2D, r, z []float64, level float64) ([]segment, error) {
	nr, nz := len(r), len(z)
	val := make([][]float64, nr)
	for i := 0; i < nr; i++ {
		val[i] = make([]float64, nz)
		for j := 0; j < nz; j++ {
			v, err := f.Psi(r[i], z[j])
			if err != nil {
				return nil, err
			}
			val[i][j] = v
		}
	}

	lerp := func(p0, p1 Point, v0, v1 float64) Point {
		t := (level - v0) / (v1 - v0)
		return Point{p0.R + t*(p1.R-p0.R), p0.Z + t*(p1.Z-p0.Z)}
	}

	var segs []segment
	for i := 0; i < nr-1; i++ {
		for j := 0; j < nz-1; j++ {
			// corners in CCW order: bl, br, tr, tl
			cR := [4]float64{r[i], r[i+1], r[i+1], r[i]}
			cZ := [4]float64{z[j], z[j], z[j+1], z[j+1]}
			cV := [4]float64{val[i][j], val[i+1][j], val[i+1][j+1], val[i][j+1]}
			var pts []Point
			for e := 0; e < 4; e++ {
				e2 := (e + 1) % 4
				v0, v1 := cV[e], cV[e2]
				if (v0 <= level && v1 > level) || (v0 > level && v1 <= level) {
					p0 := Point{cR[e], cZ[e]}
					p1 := Point{cR[e2], cZ[e2]}
					pts = append(pts, lerp(p0, p1, v0, v1))
				}
			}
			// ambiguous 4-crossing saddle cells are rare for smooth psi;
			// pair points in traversal order, which is topologically
			// correct for the common (non-saddle) cases this core expects
			for k := 0; k+1 < len(pts); k += 2 {
				segs = append(segs, segment{pts[k], pts[k+1]})
			}
		}
	}
	return segs, nil
}

const weldTol = 1e-9

type keyPair struct{ a, b int64 }

func key(p Point) keyPair {
	const q = 1e6
	return keyPair{int64(math.Round(p.R * q)), int64(math.Round(p.Z * q))}
}

// stitch chains raw segments into polylines by matching shared endpoints.
// Because each interior grid edge is crossed by at most one cell pair and
// the crossing point is computed identically from each side, endpoints
// that belong to the same physical crossing are bit-identical (up to the
// weld tolerance), so a simple endpoint map suffices without a spatial
// index (see DESIGN.md).
func stitch(segs []segment) []Polyline {
	if len(segs) == 0 {
		return nil
	}
	type endpoint struct {
		seg   int
		isEnd bool // false = segment's a, true = segment's b
	}
	adj := make(map[keyPair][]endpoint)
	add := func(p Point, seg int, isEnd bool) {
		k := key(p)
		adj[k] = append(adj[k], endpoint{seg, isEnd})
	}
	for i, s := range segs {
		add(s.a, i, false)
		add(s.b, i, true)
	}

	used := make([]bool, len(segs))
	var lines []Polyline
	for start := range segs {
		if used[start] {
			continue
		}
		// walk forward from segs[start].a -> .b -> next segment sharing .b ...
		var pts []Point
		cur := start
		used[cur] = true
		pts = append(pts, segs[cur].a, segs[cur].b)
		for {
			last := pts[len(pts)-1]
			k := key(last)
			var next int = -1
			var nextIsA bool
			for _, e := range adj[k] {
				if used[e.seg] {
					continue
				}
				next = e.seg
				nextIsA = !e.isEnd
				break
			}
			if next < 0 {
				break
			}
			used[next] = true
			if nextIsA {
				pts = append(pts, segs[next].b)
			} else {
				pts = append(pts, segs[next].a)
			}
		}
		closed := samePoint(pts[0], pts[len(pts)-1])
		lines = append(lines, Polyline{Points: pts, Closed: closed})
	}
	return lines
}

func samePoint(a, b Point) bool {
	return math.Hypot(a.R-b.R, a.Z-b.Z) < weldTol*1e6
}

func centroid(l Polyline) (R, Z float64) {
	for _, p := range l.Points {
		R += p.R
		Z += p.Z
	}
	n := float64(len(l.Points))
	return R / n, Z / n
}

// keepEnclosing filters to the single closed polyline enclosing o (spec
// §4.4: "only the single closed polyline that encloses o is returned").
func keepEnclosing(lines []Polyline, o Point) []Polyline {
	for _, l := range lines {
		if l.Closed && pointInPolygon(l.Points, o) {
			return []Polyline{l}
		}
	}
	return nil
}

// pointInPolygon is the standard ray-casting test.
func pointInPolygon(pts []Point, p Point) bool {
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Z > p.Z) != (pj.Z > p.Z) {
			rIntersect := (pj.R-pi.R)*(p.Z-pi.Z)/(pj.Z-pi.Z) + pi.R
			if p.R < rIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// reorderByPoloidalAngle reorders l's points so theta = atan2(Z-Zo,R-Ro) is
// strictly increasing over [theta_min, theta_min+2pi], flipping if the
// natural traversal order has the wrong sign (spec §4.4).
func reorderByPoloidalAngle(l *Polyline, Ro, Zo float64) {
	n := len(l.Points)
	if n < 3 {
		return
	}
	pts := l.Points
	if l.Closed {
		pts = pts[:n-1] // drop the duplicated closing point for the sort
	}
	theta := make([]float64, len(pts))
	for i, p := range pts {
		theta[i] = math.Atan2(p.Z-Zo, p.R-Ro)
	}
	// detect natural winding sign via the shoelace formula
	signedArea := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		signedArea += pts[i].R*pts[j].Z - pts[j].R*pts[i].Z
	}
	if signedArea < 0 {
		// reverse to make traversal CCW (theta increasing) before sorting
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
			theta[i], theta[j] = theta[j], theta[i]
		}
	}
	minIdx := 0
	for i := 1; i < len(theta); i++ {
		if theta[i] < theta[minIdx] {
			minIdx = i
		}
	}
	ordered := make([]Point, 0, len(pts)+1)
	thetaOrdered := make([]float64, 0, len(pts))
	for i := 0; i < len(pts); i++ {
		idx := (minIdx + i) % len(pts)
		ordered = append(ordered, pts[idx])
		thetaOrdered = append(thetaOrdered, theta[idx])
	}
	// unwrap so theta is strictly increasing over [theta_min, theta_min+2pi]
	for i := 1; i < len(thetaOrdered); i++ {
		for thetaOrdered[i] < thetaOrdered[i-1] {
			thetaOrdered[i] += 2 * math.Pi
		}
	}
	if l.Closed {
		ordered = append(ordered, ordered[0])
	}
	l.Points = ordered
}

// SpliceXPoint inserts the exact X-point location into a separatrix
// polyline immediately after the polyline point nearest to it, and marks
// the polyline Closed (spec §4.4: the separatrix
// is not strictly closed; the two crossings near the X-point neighbourhood
// are detected and the exact X-point is spliced in).
func SpliceXPoint(l *Polyline, x critpoint.OXPoint) {
	pts := l.Points
	n := len(pts)
	if n < 2 {
		return
	}
	bestI := 0
	bestD := math.Inf(1)
	for i := 0; i < n; i++ {
		d := math.Hypot(pts[i].R-x.R, pts[i].Z-x.Z)
		if d < bestD {
			bestD = d
			bestI = i
		}
	}
	xp := Point{x.R, x.Z}
	out := make([]Point, 0, n+1)
	out = append(out, pts[:bestI+1]...)
	out = append(out, xp)
	out = append(out, pts[bestI+1:]...)
	l.Points = out
	l.Closed = true
}
