package acceptance

import "net/http"

func (s *Suite) TestHealth() {
	resp := s.get("/health", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestMetrics() {
	resp := s.get("/metrics", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}
