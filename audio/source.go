package audio

// BufferSource plays a sample buffer once or in a loop.
type BufferSource struct {
	node
	scheduled

	buffer []float64
	loop   bool
	pos    int
}

// NewBufferSource creates a stopped source with no buffer.
func (c *Context) NewBufferSource() *BufferSource {
	s := &BufferSource{}
	s.init(c, s)
	return s
}

// SetBuffer replaces the sample buffer and rewinds playback.
func (s *BufferSource) SetBuffer(buf []float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.buffer = buf
	s.pos = 0
}

// SetLoop enables or disables looping.
func (s *BufferSource) SetLoop(loop bool) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.loop = loop
}

// Start begins playback at clock time when. Only the first call has effect.
func (s *BufferSource) Start(when float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.start(s.ctx, when)
}

// Stop ends playback at clock time when.
func (s *BufferSource) Stop(when float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()

	s.stop(s.ctx, when)
}

func (s *BufferSource) process(_, start int64, _, out []float64) {
	n := len(s.buffer)
	for i := range out {
		if n == 0 || !s.playing(start+int64(i)) || (!s.loop && s.pos >= n) {
			out[i] = 0
			continue
		}
		if s.pos >= n {
			s.pos = 0
		}
		out[i] = s.buffer[s.pos]
		s.pos++
	}
}
