package duck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sinkInputs = `Sink Input #41
	Driver: protocol-native.c
	Volume: front-left: 52429 /  80% / -5.81 dB,   front-right: 52429 /  80% / -5.81 dB
	Properties:
		application.name = "Firefox"
Sink Input #42
	Volume: front-left: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "espeak-ng"
Sink Input #garbage
	Volume: 10%
`

type fakeMixer struct {
	streams []Stream
	set     map[int][]int
	listErr error
}

func (m *fakeMixer) List(ctx context.Context) ([]Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.streams, m.listErr
}

func (m *fakeMixer) SetVolume(ctx context.Context, id, percent int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.set == nil {
		m.set = make(map[int][]int)
	}
	m.set[id] = append(m.set[id], percent)
	for i := range m.streams {
		if m.streams[i].ID == id {
			m.streams[i].Volume = percent
		}
	}
	return nil
}

type recordingSpeaker struct{ said []string }

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.said = append(s.said, text)
	return nil
}

func TestParseSinkInputs(t *testing.T) {
	got := parseSinkInputs(sinkInputs)
	assert.Equal(t, []Stream{
		{ID: 41, Volume: 80, AppName: "Firefox"},
		{ID: 42, Volume: 100, AppName: "espeak-ng"},
	}, got)

	assert.Nil(t, parseSinkInputs("nothing playing"))
}

func TestDucker_DuckAndRestore(t *testing.T) {
	mixer := &fakeMixer{streams: parseSinkInputs(sinkInputs)}
	d := NewDucker(mixer, []string{"espeak-ng"}, 10)
	ctx := context.Background()

	require.NoError(t, d.DuckOthers(ctx, 0.3, 0))
	assert.Equal(t, []int{24}, mixer.set[41])
	assert.NotContains(t, mixer.set, 42)

	// second duck is a no-op while active
	require.NoError(t, d.DuckOthers(ctx, 0.3, 0))
	assert.Len(t, mixer.set[41], 1)

	require.NoError(t, d.UnduckOthers(ctx, 0))
	assert.Equal(t, []int{24, 80}, mixer.set[41])
}

func TestDucker_MinVolume(t *testing.T) {
	mixer := &fakeMixer{streams: []Stream{{ID: 1, Volume: 20, AppName: "mpv"}}}
	d := NewDucker(mixer, nil, 15)

	require.NoError(t, d.DuckOthers(context.Background(), 0.1, 0))
	assert.Equal(t, []int{15}, mixer.set[1])
}

func TestWrap(t *testing.T) {
	mixer := &fakeMixer{streams: []Stream{{ID: 7, Volume: 100, AppName: "mpv"}}}
	d := NewDucker(mixer, nil, 0)
	d.fade = 0
	inner := &recordingSpeaker{}

	require.NoError(t, d.Wrap(inner).Speak(context.Background(), "hello"))

	assert.Equal(t, []string{"hello"}, inner.said)
	assert.Equal(t, []int{30, 100}, mixer.set[7])
}

func TestWrap_MixerFailureStillSpeaks(t *testing.T) {
	mixer := &fakeMixer{listErr: errors.New("pactl missing")}
	inner := &recordingSpeaker{}

	require.NoError(t, NewDucker(mixer, nil, 0).Wrap(inner).Speak(context.Background(), "hi"))
	assert.Equal(t, []string{"hi"}, inner.said)
}

type cancellingSpeaker struct{ cancel context.CancelFunc }

func (s *cancellingSpeaker) Speak(context.Context, string) error {
	s.cancel()
	return context.Canceled
}

func TestWrap_RestoresAfterCancel(t *testing.T) {
	mixer := &fakeMixer{streams: []Stream{{ID: 7, Volume: 100, AppName: "mpv"}}}
	d := NewDucker(mixer, nil, 0)
	d.fade = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := d.Wrap(&cancellingSpeaker{cancel: cancel}).Speak(ctx, "goodbye")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []int{30, 100}, mixer.set[7])
	assert.Equal(t, 100, mixer.streams[0].Volume)
	assert.False(t, d.active)

	// a later cycle ducks again instead of being skipped
	require.NoError(t, d.Wrap(&recordingSpeaker{}).Speak(context.Background(), "hi"))
	assert.Equal(t, []int{30, 100, 30, 100}, mixer.set[7])
}
