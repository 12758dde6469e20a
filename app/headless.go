package app

// HeadlessSurface is a Surface that keeps what it is given instead of drawing
// it. Headless runs and tests use it.
type HeadlessSurface struct {
	W, H float64
	DPR  float64

	Configures     int
	Projection     [16]float32
	ConfiguredDPR  float64
	Uploads        int
	Points         []float32
	PointsVersion  uint64
	Frames         int
	Last           Frame
	ProxyVersions  map[string]uint64 // Last mesh version seen per proxy
	ProxyTexUpload int               // Mesh versions that would have been uploaded
}

// NewHeadlessSurface creates a surface of the given size.
func NewHeadlessSurface(w, h, dpr float64) *HeadlessSurface {
	return &HeadlessSurface{W: w, H: h, DPR: dpr, ProxyVersions: make(map[string]uint64)}
}

// SetSize changes the reported size, as a window resize would.
func (s *HeadlessSurface) SetSize(w, h float64) {
	s.W, s.H = w, h
}

func (s *HeadlessSurface) Size() (w, h float64) { return s.W, s.H }

func (s *HeadlessSurface) PixelRatio() float64 { return s.DPR }

func (s *HeadlessSurface) Configure(w, h, dpr float64, projection [16]float32) {
	s.Configures++
	s.ConfiguredDPR = dpr
	s.Projection = projection
}

func (s *HeadlessSurface) UploadPoints(positions []float32, version uint64) {
	s.Uploads++
	s.Points = append(s.Points[:0], positions...)
	s.PointsVersion = version
}

func (s *HeadlessSurface) DrawFrame(f *Frame) {
	s.Frames++
	s.Last = *f
	s.Last.Proxies = append([]ProxyDraw(nil), f.Proxies...)
	for _, p := range f.Proxies {
		if p.Mesh != nil && s.ProxyVersions[p.ID] != p.Version {
			s.ProxyVersions[p.ID] = p.Version
			s.ProxyTexUpload++
		}
	}
}
