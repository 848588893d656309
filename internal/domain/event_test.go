package domain_test

import (
	"math"
	"testing"

	"github.com/arthurdotwork/board/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoomCode(t *testing.T) {
	t.Parallel()

	t.Run("it should uppercase and trim the code", func(t *testing.T) {
		code, err := domain.NormalizeRoomCode("  abc123 ")
		require.NoError(t, err)
		require.Equal(t, "ABC123", code)
	})

	t.Run("it should reject codes of the wrong length", func(t *testing.T) {
		for _, code := range []string{"", "ABC12", "ABC1234"} {
			_, err := domain.NormalizeRoomCode(code)
			require.ErrorIs(t, err, domain.ErrInvalidRoomCode)
		}
	})

	t.Run("it should reject codes with characters outside A-Z and 0-9", func(t *testing.T) {
		for _, code := range []string{"ABC-12", "ABC 12", "ABC12é"} {
			_, err := domain.NormalizeRoomCode(code)
			require.ErrorIs(t, err, domain.ErrInvalidRoomCode)
		}
	})
}

func TestStroke_Validate(t *testing.T) {
	t.Parallel()

	valid := domain.Stroke{PrevX: 0, PrevY: 0, CurrX: 10, CurrY: 10, Color: "#000000", Size: 5, Tool: domain.ToolPen}

	t.Run("it should accept a pen stroke and an eraser stroke", func(t *testing.T) {
		require.NoError(t, valid.Validate())

		eraser := valid
		eraser.Tool = domain.ToolEraser
		require.NoError(t, eraser.Validate())
	})

	t.Run("it should reject non-finite coordinates", func(t *testing.T) {
		for _, c := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			stroke := valid
			stroke.CurrX = c
			require.ErrorIs(t, stroke.Validate(), domain.ErrInvalidStroke)
		}
	})

	t.Run("it should reject an out-of-range size", func(t *testing.T) {
		for _, size := range []float64{0, -1, 101} {
			stroke := valid
			stroke.Size = size
			require.ErrorIs(t, stroke.Validate(), domain.ErrInvalidStroke)
		}
	})

	t.Run("it should reject an unknown tool", func(t *testing.T) {
		stroke := valid
		stroke.Tool = "spray"
		require.ErrorIs(t, stroke.Validate(), domain.ErrInvalidStroke)
	})

	t.Run("it should reject a missing color", func(t *testing.T) {
		stroke := valid
		stroke.Color = ""
		require.ErrorIs(t, stroke.Validate(), domain.ErrInvalidStroke)
	})
}
