package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

int
espeak_init(const char *lang, int rate, int volume)
{
	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -1; }

	espeak_VOICE specs = { .languages = lang };
	if (espeak_SetVoiceByProperties(&specs) != EE_OK)
	{ return -2; }

	espeak_SetParameter(espeakRATE, rate, 0);
	espeak_SetParameter(espeakVOLUME, volume, 0);

	return 0;
}

int
espeak_say(const char *text)
{
	if (!text)
	{ return -1; }

	if (espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0, espeakCHARS_AUTO, NULL, NULL) != EE_OK)
	{ return -2; }

	return espeak_Synchronize() == EE_OK ? 0 : -3;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

type Voice struct {
	Language string  // espeak language, e.g. "en"
	Rate     int     // words per minute
	Volume   float64 // 0..1, mapped onto espeak amplitude 0..100
}

// Espeak speaks through libespeak-ng and blocks until playback ends.
type Espeak struct {
	mu sync.Mutex
}

func NewEspeak(v Voice) (*Espeak, error) {
	lang := v.Language
	if lang == "" {
		lang = "en"
	}

	clang := C.CString(lang)
	defer C.free(unsafe.Pointer(clang))

	rc := C.espeak_init(clang, C.int(v.Rate), C.int(amplitude(v.Volume)))
	if rc != 0 {
		return nil, fmt.Errorf("espeak_init failed: %d", int(rc))
	}

	return &Espeak{}, nil
}

func (e *Espeak) Speak(_ context.Context, text string) error {
	if text == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	rc := C.espeak_say(ctext)
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}

func (e *Espeak) Close() {
	C.espeak_Terminate()
}

func amplitude(volume float64) int {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return int(volume * 100)
}
