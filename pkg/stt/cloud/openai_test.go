package cloud

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(n int) []float32 {
	pcm := make([]float32, n)
	for i := range pcm {
		if i%2 == 0 {
			pcm[i] = 0.25
		} else {
			pcm[i] = -0.25
		}
	}
	return pcm
}

func TestEncodeWAV(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := EncodeWAV(fs, "a.wav", tone(1600))
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 16000, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
	require.Len(t, buf.Data, 1600)
	assert.Equal(t, 8191, buf.Data[0])
	assert.Equal(t, -8191, buf.Data[1])
}

func TestFloatToInt16_Clamps(t *testing.T) {
	assert.Equal(t, []int{32767, -32767, 0}, floatToInt16([]float32{2, -3, 0}))
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestTranscribe(t *testing.T) {
	var gotPath, gotModel string
	var gotAudio int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotModel = r.FormValue("model")
			if f, _, err := r.FormFile("file"); err == nil {
				b, _ := io.ReadAll(f)
				gotAudio = len(b)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  What time is it?  "}`))
	}))
	defer srv.Close()

	tr, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), tone(3200))
	require.NoError(t, err)

	assert.Equal(t, "What time is it?", text)
	assert.True(t, strings.HasSuffix(gotPath, "/audio/transcriptions"))
	assert.Equal(t, DefaultModel, gotModel)
	assert.Greater(t, gotAudio, 3200*2)
}

func TestTranscribe_ServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	tr, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), tone(320))
	assert.Error(t, err)
}

func TestTranscribe_Empty(t *testing.T) {
	tr, err := New(Config{APIKey: "test"})
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), nil)
	assert.Error(t, err)
}
