package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"susan/pkg/vad"
)

type fakeRecorder struct {
	pcm []float32
	err error
}

func (f *fakeRecorder) Record(context.Context) ([]float32, error) { return f.pcm, f.err }

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(context.Context, []float32) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "ok", Ok.String())
	assert.Equal(t, "timed_out", TimedOut.String())
	assert.Equal(t, "unrecognized", Unrecognized.String())
	assert.Equal(t, "service_error", ServiceError.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "what time is it?", Normalize("  What TIME is it?\n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestMicrophone_Listen(t *testing.T) {
	ctx := context.Background()
	speech := []float32{0.1, 0.2}

	t.Run("heard", func(t *testing.T) {
		tr := &fakeTranscriber{text: " Tell me a JOKE "}
		res, err := NewMicrophone(&fakeRecorder{pcm: speech}, tr).Listen(ctx)
		require.NoError(t, err)
		assert.Equal(t, Heard("tell me a joke"), res)
	})

	t.Run("no speech before timeout", func(t *testing.T) {
		tr := &fakeTranscriber{}
		res, err := NewMicrophone(&fakeRecorder{err: vad.ErrNoSpeech}, tr).Listen(ctx)
		require.NoError(t, err)
		assert.Equal(t, TimedOut, res.Kind)
		assert.Zero(t, tr.calls)
	})

	t.Run("blank transcription", func(t *testing.T) {
		res, err := NewMicrophone(&fakeRecorder{pcm: speech}, &fakeTranscriber{text: "  "}).Listen(ctx)
		require.NoError(t, err)
		assert.Equal(t, Unrecognized, res.Kind)
	})

	t.Run("service failure", func(t *testing.T) {
		boom := errors.New("503")
		res, err := NewMicrophone(&fakeRecorder{pcm: speech}, &fakeTranscriber{err: boom}).Listen(ctx)
		require.NoError(t, err)
		assert.Equal(t, ServiceError, res.Kind)
		assert.ErrorIs(t, res.Err, boom)
	})

	t.Run("device failure is fatal", func(t *testing.T) {
		broken := errors.New("device unplugged")
		_, err := NewMicrophone(&fakeRecorder{err: broken}, &fakeTranscriber{}).Listen(ctx)
		assert.ErrorIs(t, err, broken)
	})

	t.Run("cue runs every cycle", func(t *testing.T) {
		var cues int
		m := NewMicrophone(&fakeRecorder{pcm: speech}, &fakeTranscriber{text: "hi"}, WithCue(func() error {
			cues++
			return errors.New("no speaker")
		}))
		for i := 0; i < 3; i++ {
			_, err := m.Listen(ctx)
			require.NoError(t, err)
		}
		assert.Equal(t, 3, cues)
	})
}

func TestInbox_Listen(t *testing.T) {
	ctx := context.Background()

	in := NewInbox(time.Second)
	in.Push("EXIT")
	res, err := in.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, Heard("exit"), res)

	in.Push("   ")
	res, err = in.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, Unrecognized, res.Kind)

	quick := NewInbox(10 * time.Millisecond)
	res, err = quick.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, TimedOut, res.Kind)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewInbox(0).Listen(cctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInbox_PushNeverBlocks(t *testing.T) {
	in := NewInbox(time.Second)
	for i := 0; i < cap(in.msgs); i++ {
		require.True(t, in.Push("joke"))
	}
	assert.False(t, in.Push("overflow"))

	res, err := in.Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Heard("joke"), res)
	assert.True(t, in.Push("exit"))
}

func writeWAV(t *testing.T, path string, n int, level int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	data := make([]int, n)
	for i := range data {
		data[i] = level
	}

	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "02.wav"), 1600, 1000)
	writeWAV(t, filepath.Join(dir, "01.wav"), 1600, 1000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "03.wav"), []byte("not a wav"), 0o644))

	tr := &fakeTranscriber{text: "What is your name"}
	r, err := NewReplay(dir, tr)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Remaining())

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := r.Listen(ctx)
		require.NoError(t, err)
		assert.Equal(t, Heard("what is your name"), res)
	}

	res, err := r.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, Unrecognized, res.Kind)
	assert.Error(t, res.Err)

	_, err = r.Listen(ctx)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 2, tr.calls)
}

func TestNewReplay_MissingDir(t *testing.T) {
	_, err := NewReplay(filepath.Join(t.TempDir(), "nope"), &fakeTranscriber{})
	assert.Error(t, err)
}
