package hat_queue

import "santa_hat_bot/entities"

const (
	MinScale = 0.1
	MaxScale = 1.0

	MinRotation = -180
	MaxRotation = 180

	scaleStep    = 0.05
	offsetStep   = 10
	rotationStep = 15
)

// Placement describes where a hat lands on a portrait. Scale is relative to
// the portrait width, OffsetX shifts the hat from the horizontal center,
// OffsetY is measured from the top edge, and Rotation is in degrees with
// positive values turning counter-clockwise.
type Placement struct {
	Scale    float64
	OffsetX  int
	OffsetY  int
	Rotation int
}

type Adjustment int

const (
	AdjustmentNone Adjustment = iota
	AdjustmentBigger
	AdjustmentSmaller
	AdjustmentMoveLeft
	AdjustmentMoveRight
	AdjustmentMoveUp
	AdjustmentMoveDown
	AdjustmentTiltLeft
	AdjustmentTiltRight
	AdjustmentReset
)

// Adjust applies a single button press. Reset restores the bot defaults.
func (p Placement) Adjust(adjustment Adjustment, defaults Placement, baseWidth, baseHeight int) Placement {
	switch adjustment {
	case AdjustmentBigger:
		p.Scale += scaleStep
	case AdjustmentSmaller:
		p.Scale -= scaleStep
	case AdjustmentMoveLeft:
		p.OffsetX -= offsetStep
	case AdjustmentMoveRight:
		p.OffsetX += offsetStep
	case AdjustmentMoveUp:
		p.OffsetY -= offsetStep
	case AdjustmentMoveDown:
		p.OffsetY += offsetStep
	case AdjustmentTiltLeft:
		// Tilting left is counter-clockwise, the positive direction.
		p.Rotation += rotationStep
	case AdjustmentTiltRight:
		p.Rotation -= rotationStep
	case AdjustmentReset:
		p = defaults
	}

	return p.Clamp(baseWidth, baseHeight)
}

// Clamp bounds the placement for a portrait of the given dimensions.
func (p Placement) Clamp(baseWidth, baseHeight int) Placement {
	p.Scale = clampFloat(p.Scale, MinScale, MaxScale)
	p.OffsetX = clampInt(p.OffsetX, -baseWidth, baseWidth)
	p.OffsetY = clampInt(p.OffsetY, -baseHeight, baseHeight)
	p.Rotation = clampInt(p.Rotation, MinRotation, MaxRotation)

	return p
}

func placementFromDefaults(defaults *entities.DefaultSettings) Placement {
	return Placement{
		Scale:    defaults.Scale,
		OffsetX:  defaults.OffsetX,
		OffsetY:  defaults.OffsetY,
		Rotation: defaults.Rotation,
	}
}

func resolvePlacement(options QueueItemOptions, defaults Placement) Placement {
	placement := defaults

	if options.Scale != nil {
		placement.Scale = *options.Scale
	}

	if options.OffsetX != nil {
		placement.OffsetX = *options.OffsetX
	}

	if options.OffsetY != nil {
		placement.OffsetY = *options.OffsetY
	}

	if options.Rotation != nil {
		placement.Rotation = *options.Rotation
	}

	return placement
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
