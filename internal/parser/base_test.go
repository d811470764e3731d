package parser

import (
	"testing"

	"fjacquet/wire-csv/internal/logging"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseParser(t *testing.T) {
	t.Run("with provided logger", func(t *testing.T) {
		mockLog := logging.NewMockLogger()
		baseParser := NewBaseParser(mockLog)

		assert.Equal(t, mockLog, baseParser.GetLogger())
	})

	t.Run("with nil logger uses default", func(t *testing.T) {
		baseParser := NewBaseParser(nil)

		assert.NotNil(t, baseParser.GetLogger())
	})
}

func TestBaseParser_SetLogger(t *testing.T) {
	t.Run("sets new logger", func(t *testing.T) {
		baseParser := NewBaseParser(nil)
		mockLog := logging.NewMockLogger()

		baseParser.SetLogger(mockLog)

		assert.Equal(t, mockLog, baseParser.GetLogger())
	})

	t.Run("ignores nil logger", func(t *testing.T) {
		mockLog := logging.NewMockLogger()
		baseParser := NewBaseParser(mockLog)

		baseParser.SetLogger(nil)

		assert.Equal(t, mockLog, baseParser.GetLogger())
	})
}
