/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := map[error]string{
		ErrNotFound:                       KindNotFound,
		ErrLobbyGone:                      KindNotFound,
		ErrInvalidState:                   KindInvalidState,
		ErrForbidden:                      KindForbidden,
		ErrNameTaken:                      KindNameTaken,
		ErrInvalidTarget:                  KindInvalidTarget,
		ErrInvalidName:                    KindInvalidName,
		ErrExhausted:                      KindInternal,
		errorf(ErrForbidden, "wrapped"):   KindForbidden,
		errors.New("something unrelated"): KindInternal,
	}

	for err, kind := range tests {
		assert.Equal(t, kind, ErrorKind(err), err.Error())
	}

	msg := NewErrorMessage(ErrExhausted)
	assert.NotContains(t, msg.Message, "codes", "internal details stay internal")
	assert.False(t, msg.ResetSession)
}
