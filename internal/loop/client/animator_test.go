package client

import (
	"testing"
	"time"

	"github.com/tomz197/meteordash/internal/entity"
	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/physics"
)

func TestAnimatorFallsLinearly(t *testing.T) {
	tracker := physics.NewTracker()
	a := NewAnimator(tracker, 720)
	rock := &entity.Entity{Key: "b-0", Kind: entity.KindObstacle, X: 10, Y: -100}
	obstacles := []*entity.Entity{rock}
	t0 := time.Unix(1000, 0)
	travel := 720.0 + config.FallTravelExtraRoom

	top := func() float64 {
		t.Helper()
		r, ok := tracker.Get(rock.Key)
		if !ok {
			t.Fatal("obstacle not tracked")
		}
		if r.Width() != config.ObstacleSize || r.Left != 10 {
			t.Fatalf("box = %+v", r)
		}
		return r.Top
	}

	a.Advance(t0, obstacles, nil, 10, true)
	if got := top(); got != -100 {
		t.Errorf("start top = %v, want -100", got)
	}

	a.Advance(t0.Add(5*time.Second), obstacles, nil, 10, true)
	if got, want := top(), -100+travel/2; got != want {
		t.Errorf("halfway top = %v, want %v", got, want)
	}

	// Paused time doesn't count, and a later difficulty change doesn't
	// alter an entity already falling.
	a.Advance(t0.Add(8*time.Second), obstacles, nil, 3, false)
	if got, want := top(), -100+travel/2; got != want {
		t.Errorf("paused top = %v, want %v", got, want)
	}
	a.Advance(t0.Add(9*time.Second), obstacles, nil, 3, true)
	if got, want := top(), -100+travel*6/10; got != want {
		t.Errorf("resumed top = %v, want %v", got, want)
	}

	// The fall stops at the end of its travel.
	a.Advance(t0.Add(time.Minute), obstacles, nil, 3, true)
	if got, want := top(), -100+travel; got != want {
		t.Errorf("final top = %v, want %v", got, want)
	}
	if a.Meteor(rock.Key) == nil {
		t.Error("obstacle has no sprite")
	}

	a.Advance(t0.Add(61*time.Second), nil, nil, 3, true)
	if a.Meteor(rock.Key) != nil {
		t.Error("removed obstacle still animated")
	}
}

func TestAnimatorRewardsUseTheirOwnSpeed(t *testing.T) {
	tracker := physics.NewTracker()
	a := NewAnimator(tracker, 720)
	star := &entity.Entity{Key: "r-0", Kind: entity.KindReward, X: 50, Y: 0}
	t0 := time.Unix(1000, 0)

	a.Advance(t0, nil, []*entity.Entity{star}, 3, true)
	a.Advance(t0.Add(2*time.Second), nil, []*entity.Entity{star}, 3, true)

	r, ok := tracker.Get(star.Key)
	if !ok {
		t.Fatal("reward not tracked")
	}
	want := (720.0 + config.FallTravelExtraRoom) * 2 / config.RewardFallSeconds
	if r.Top != want {
		t.Errorf("top = %v, want %v", r.Top, want)
	}
	if r.Width() != config.RewardSize {
		t.Errorf("width = %v, want %v", r.Width(), config.RewardSize)
	}
	if a.Meteor(star.Key) != nil {
		t.Error("reward got a meteor sprite")
	}
}

func TestAnimatorReset(t *testing.T) {
	tracker := physics.NewTracker()
	a := NewAnimator(tracker, 720)
	rock := &entity.Entity{Key: "b-0", Kind: entity.KindObstacle}
	t0 := time.Unix(1000, 0)
	a.Advance(t0, []*entity.Entity{rock}, nil, 10, true)
	a.Advance(t0.Add(time.Second), []*entity.Entity{rock}, nil, 10, true)

	a.Reset()
	a.Advance(t0.Add(2*time.Second), []*entity.Entity{rock}, nil, 10, true)
	if r, _ := tracker.Get(rock.Key); r.Top != 0 {
		t.Errorf("top after reset = %v, want 0", r.Top)
	}
}
