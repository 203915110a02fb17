package capture

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
)

// MJPEGSource reads frames from an MJPEG-over-HTTP camera stream
// (multipart/x-mixed-replace), the usual network interface of IP cameras
// and webcam relays.
type MJPEGSource struct {
	resp   *http.Response
	reader *multipart.Reader

	closeOnce sync.Once
	closeErr  error
}

// OpenMJPEG connects to an MJPEG stream URL and prepares it for reading.
func OpenMJPEG(ctx context.Context, url string) (*MJPEGSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build camera request: %w", err)
	}

	client := &http.Client{Timeout: 0} // long-lived stream, no overall deadline
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect camera stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("camera stream returned status %d", resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		resp.Body.Close()
		return nil, fmt.Errorf("camera stream is not multipart: %q", resp.Header.Get("Content-Type"))
	}

	return &MJPEGSource{
		resp:   resp,
		reader: multipart.NewReader(resp.Body, params["boundary"]),
	}, nil
}

// Next decodes the next JPEG part from the stream. Returns io.EOF when the
// camera closes the stream.
func (s *MJPEGSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	part, err := s.reader.NextPart()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read camera part: %w", err)
	}
	defer part.Close()

	img, err := jpeg.Decode(part)
	if err != nil {
		return nil, fmt.Errorf("decode camera frame: %w", err)
	}
	return img, nil
}

// Close tears down the HTTP stream. Safe to call more than once.
func (s *MJPEGSource) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.resp.Body.Close()
	})
	return s.closeErr
}
