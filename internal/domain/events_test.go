package domain

import "testing"

func TestIsPlayerEvent(t *testing.T) {
	if !(Event{Kind: EventZombieKill, Player: "Ernie"}).IsPlayerEvent() {
		t.Fatal("attributed event should be a player event")
	}
	if (Event{Kind: EventServerStarted}).IsPlayerEvent() {
		t.Fatal("server event should not be a player event")
	}
}

func TestDetailString(t *testing.T) {
	tcs := []struct {
		name string
		ev   Event
		want string
	}{
		{"death", Event{Data: DeathData{Cause: "Zombie"}}, "Zombie"},
		{"distance", Event{Data: DistanceData{Tiles: 250}}, "250 tiles"},
		{"level up", Event{Data: LevelUpData{Skill: "Carpentry", Level: 4}}, "Carpentry 4"},
		{"crafted", Event{Data: ItemCraftedData{Item: "Stone Axe"}}, "Stone Axe"},
		{"placed", Event{Data: BuildingPlacedData{Structure: "Wooden Wall"}}, "Wooden Wall"},
		{"no payload", Event{Kind: EventPlayerConnect}, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ev.DetailString(); got != tc.want {
				t.Fatalf("DetailString = %q, want %q", got, tc.want)
			}
		})
	}
}
