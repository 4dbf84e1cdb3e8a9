package ir

import "github.com/gogpu/hydra/graph"

// Lower translates the resolved chain into a straight-line Program.
//
// Rotate modifiers are coordinate pre-transforms: they rewrite the
// sampling coordinate fed into the generator, no matter where in the
// chain they appear. Lowering therefore threads an immutable "current
// coordinate" pair through the modifier list first, then lowers the
// generator against the final coordinate, then applies the color
// modifiers in written order.
func Lower(g *graph.Graph) (*Program, error) {
	return LowerWithLimit(g, DefaultMaxValues)
}

// LowerWithLimit is Lower with an explicit value cap.
func LowerWithLimit(g *graph.Graph, limit int) (*Program, error) {
	if len(g.Nodes) == 0 {
		return nil, internalf("empty graph reached lowering")
	}
	if !g.Nodes[0].Kind.IsGenerator() {
		return nil, internalf("graph starts with modifier %s", g.Nodes[0].Kind)
	}

	b := NewBuilderWithLimit(limit)
	l := &lowerer{b: b, time: b.Time()}

	// Coordinate context: starts at the raw normalized coordinate and
	// is rewritten by each rotate in written order.
	cx, cy := b.CoordX(), b.CoordY()
	for _, n := range g.Modifiers() {
		if n.Kind == graph.ModRotate {
			cx, cy = l.rotate(cx, cy, n.Params)
		}
	}

	r, gr, bl, a, err := l.generator(g.Generator(), cx, cy)
	if err != nil {
		return nil, err
	}

	for _, n := range g.Modifiers() {
		switch n.Kind {
		case graph.ModRotate:
			// already folded into the coordinate context
		case graph.ModColor:
			r = b.Mul(r, b.Literal(n.Params[0]))
			gr = b.Mul(gr, b.Literal(n.Params[1]))
			bl = b.Mul(bl, b.Literal(n.Params[2]))
			a = b.Mul(a, b.Literal(n.Params[3]))
		case graph.ModInvert:
			amount := b.Literal(n.Params[0])
			one := b.Literal(1)
			r = b.Mix(r, b.Sub(one, r), amount)
			gr = b.Mix(gr, b.Sub(one, gr), amount)
			bl = b.Mix(bl, b.Sub(one, bl), amount)
		default:
			return nil, internalf("modifier kind %s missing from lowering", n.Kind)
		}
	}

	return b.Finish(r, gr, bl, a)
}

type lowerer struct {
	b    *Builder
	time ValueID
}

// rotate rewrites the coordinate context: rotation by angle + t*speed
// radians about the screen center (0.5, 0.5).
func (l *lowerer) rotate(cx, cy ValueID, params []float32) (ValueID, ValueID) {
	b := l.b
	angle := b.Add(b.Literal(params[0]), b.Mul(l.time, b.Literal(params[1])))
	sinA, cosA := b.Sin(angle), b.Cos(angle)

	half := b.Literal(0.5)
	px, py := b.Sub(cx, half), b.Sub(cy, half)

	nx := b.Add(half, b.Sub(b.Mul(px, cosA), b.Mul(py, sinA)))
	ny := b.Add(half, b.Add(b.Mul(px, sinA), b.Mul(py, cosA)))
	return nx, ny
}

func (l *lowerer) generator(n graph.Node, cx, cy ValueID) (r, g, bl, a ValueID, err error) {
	b := l.b
	switch n.Kind {
	case graph.GenOsc:
		freq := b.Literal(n.Params[0])
		phase := b.Add(b.Mul(l.time, b.Literal(n.Params[1])), b.Literal(n.Params[2]))
		r = l.oscChannel(cx, freq, phase)
		g = l.oscChannel(cy, freq, phase)
		bl = l.oscChannel(b.Add(cx, cy), freq, phase)
		a = b.Literal(1)

	case graph.GenNoise:
		scale := b.Literal(n.Params[0])
		drift := b.Mul(b.Literal(n.Params[1]), l.time)
		px := b.Add(b.Mul(scale, cx), drift)
		py := b.Add(b.Mul(scale, cy), drift)
		noise := l.valueNoise(px, py)
		r, g, bl = noise, noise, noise
		a = b.Literal(1)

	case graph.GenSolid:
		r = b.Literal(n.Params[0])
		g = b.Literal(n.Params[1])
		bl = b.Literal(n.Params[2])
		a = b.Literal(n.Params[3])

	case graph.GenGradient:
		r, g = cx, cy
		bl = b.Sin(b.Mul(l.time, b.Literal(n.Params[0])))
		a = b.Literal(1)

	default:
		return 0, 0, 0, 0, internalf("generator kind %s missing from lowering", n.Kind)
	}
	return r, g, bl, a, nil
}

// oscChannel computes 0.5 + 0.5*sin(freq*c + t*sync + offset) with the
// time/offset terms pre-folded into phase.
func (l *lowerer) oscChannel(c, freq, phase ValueID) ValueID {
	b := l.b
	half := b.Literal(0.5)
	s := b.Sin(b.Add(b.Mul(freq, c), phase))
	return b.Add(half, b.Mul(half, s))
}

// valueNoise is 2-D value noise: hashed lattice corners blended with a
// smoothstep weight. Straight-line by construction.
func (l *lowerer) valueNoise(px, py ValueID) ValueID {
	b := l.b
	one := b.Literal(1)

	ix, iy := b.Floor(px), b.Floor(py)
	fx, fy := b.Fract(px), b.Fract(py)

	ux := l.smooth(fx)
	uy := l.smooth(fy)

	h00 := l.hash(ix, iy)
	h10 := l.hash(b.Add(ix, one), iy)
	h01 := l.hash(ix, b.Add(iy, one))
	h11 := l.hash(b.Add(ix, one), b.Add(iy, one))

	return b.Mix(b.Mix(h00, h10, ux), b.Mix(h01, h11, ux), uy)
}

// smooth is the Hermite fade f*f*(3 - 2*f).
func (l *lowerer) smooth(f ValueID) ValueID {
	b := l.b
	return b.Mul(b.Mul(f, f), b.Sub(b.Literal(3), b.Mul(b.Literal(2), f)))
}

// hash is the classic shader lattice hash:
// fract(sin(x*12.9898 + y*78.233) * 43758.5453).
func (l *lowerer) hash(x, y ValueID) ValueID {
	b := l.b
	d := b.Add(b.Mul(x, b.Literal(12.9898)), b.Mul(y, b.Literal(78.233)))
	return b.Fract(b.Mul(b.Sin(d), b.Literal(43758.5453)))
}
