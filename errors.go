// SPDX-License-Identifier: EPL-2.0

package wav2mp3

import "errors"

var (
	ErrInvalidOptions = errors.New("invalid options")
	ErrNoAudio        = errors.New("input has no audio frames")
)
