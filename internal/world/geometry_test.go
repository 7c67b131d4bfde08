package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsPointIsHalfOpen(t *testing.T) {
	r := Rect{X: 32, Y: 32, W: 32, H: 32}
	assert.True(t, r.ContainsPoint(Vec2{X: 32, Y: 32}))
	assert.True(t, r.ContainsPoint(Vec2{X: 63.9, Y: 63.9}))
	assert.False(t, r.ContainsPoint(Vec2{X: 64, Y: 40}))
	assert.False(t, r.ContainsPoint(Vec2{X: 40, Y: 64}))
}

func TestRectClampInside(t *testing.T) {
	bounds := Rect{W: 640, H: 480}
	assert.Equal(t, Rect{X: 0, Y: 454, W: 26, H: 26}, Rect{X: -5, Y: 470, W: 26, H: 26}.ClampInside(bounds))
	inside := Rect{X: 10, Y: 10, W: 26, H: 26}
	assert.Equal(t, inside, inside.ClampInside(bounds))
}

func TestDominantDirection(t *testing.T) {
	for _, tc := range []struct {
		delta Vec2
		want  Direction
	}{
		{Vec2{X: 5, Y: 1}, DirRight},
		{Vec2{X: -5, Y: 1}, DirLeft},
		{Vec2{X: 1, Y: 5}, DirDown},
		{Vec2{X: 1, Y: -5}, DirUp},
		{Vec2{X: 3, Y: 3}, DirDown},
		{Vec2{X: 3, Y: -3}, DirUp},
	} {
		assert.Equal(t, tc.want, DominantDirection(tc.delta), "delta %+v", tc.delta)
	}
}

func TestRankTablesClamp(t *testing.T) {
	assert.Equal(t, 1.0, MoveSpeed(-1))
	assert.Equal(t, 2.0, MoveSpeed(MaxRank+3))
	assert.Equal(t, 25, ShotDelay(5))
	assert.Equal(t, 7.0, ProjectileSpeed(7))
	assert.Equal(t, 3, ProjectileDamage(3))
}
