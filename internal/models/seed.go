package models

import "net/url"

// SeedChores is the default quest board for a freshly founded kingdom.
func SeedChores() []Chore {
	return []Chore{
		{ID: "c1", Title: "Whole House Cleaning", Description: "Vacuum the carpets and dust the shelves.", Points: 50, Status: ChoreStatusTodo, Category: CategoryCleaning},
		{ID: "c2", Title: "Friday Dinner Cooking", Description: "Prepare pasta and salad for the family.", Points: 40, Status: ChoreStatusTodo, Category: CategoryCooking},
		{ID: "c3", Title: "Math & Science Homework", Description: "Complete all assignments for Monday.", Points: 60, Status: ChoreStatusTodo, Category: CategoryHomework},
		{ID: "c4", Title: "Sunday Baking Session", Description: "Bake a fresh batch of chocolate chip cookies.", Points: 30, Status: ChoreStatusDone, Category: CategoryBaking},
		{ID: "c5", Title: "Reading Teaching", Description: "Help Leo with his reading practice for 30 mins.", Points: 45, Status: ChoreStatusTodo, Category: CategoryTeaching},
	}
}

// SeedTravelTargets is the default expedition roadmap.
func SeedTravelTargets() []TravelTarget {
	return []TravelTarget{
		{ID: "t1", Location: "Montreal", Status: TravelNotPlanned},
		{ID: "t2", Location: "Quebec", Status: TravelNotPlanned},
		{ID: "t3", Location: "Ottawa", Status: TravelNotPlanned},
		{ID: "t4", Location: "Kingston", Status: TravelNotPlanned},
		{ID: "t5", Location: "Sudbury", Status: TravelNotPlanned},
	}
}

// RewardCatalog is the static vault. It is not part of the snapshot;
// redeeming only debits points.
func RewardCatalog() []Reward {
	return []Reward{
		{ID: "r1", Title: "Extra Gaming Time", Cost: 100, Description: "30 minutes of extra screen time.", Icon: "🎮"},
		{ID: "r2", Title: "Pick Dinner Tonight", Cost: 150, Description: "You choose the restaurant or meal!", Icon: "🍕"},
		{ID: "r3", Title: "No Chores Day", Cost: 500, Description: "A full day off from all assigned tasks.", Icon: "🏖️"},
		{ID: "r4", Title: "New Toy/Book", Cost: 1000, Description: "A special surprise from the store.", Icon: "🎁"},
	}
}

// SeedSnapshot is what a corrupt or absent storage file degrades to: the
// default boards with no kingdom and no members, which routes the user to
// the founding flow.
func SeedSnapshot() Snapshot {
	return Snapshot{
		Chores:        SeedChores(),
		TravelTargets: SeedTravelTargets(),
	}
}

// AvatarURL returns the deterministic avatar reference for a member name.
// The URL is treated as an opaque string everywhere else.
func AvatarURL(name string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name)
}
