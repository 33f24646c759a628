package catalog

// builtin is the stock catalog: the world-boss and meta-event rotation plus
// the daily gathering/crafting/special checklist. It goes through the same
// build+validate path as a user catalog file.
var builtin = fileSpec{
	Events: map[string]eventSpec{
		"tt_triple_trouble": {
			Name:            "Triple Trouble",
			Map:             "Bloodtide Coast",
			Waypoint:        "[&BKgBAAA=]",
			DurationMinutes: 30,
			UTCTimes:        []string{"01:00", "04:00", "08:00", "12:30", "17:00", "20:00"},
			Rewards: []rewardSpec{
				{Kind: "item", Name: "Amalgamated Gemstone", ItemID: 68063},
			},
		},
		"vb_night_boss": {
			Name:            "Night Bosses",
			Map:             "Verdant Brink",
			Waypoint:        "[&BAgIAAA=]",
			DurationMinutes: 20,
			UTCTimes: []string{
				"00:10", "02:10", "04:10", "06:10", "08:10", "10:10",
				"12:10", "14:10", "16:10", "18:10", "20:10", "22:10",
			},
		},
		"td_chak_gerent": {
			Name:            "Chak Gerent",
			Map:             "Tangled Depths",
			Waypoint:        "[&BIsCAAA=]",
			DurationMinutes: 20,
			UTCTimes: []string{
				"00:30", "02:30", "04:30", "06:30", "08:30", "10:30",
				"12:30", "14:30", "16:30", "18:30", "20:30", "22:30",
			},
			Rewards: []rewardSpec{
				{Kind: "item", Name: "Chak Egg Sac", ItemID: 75076},
			},
		},
		"tt_tequatl": {
			Name:            "Tequatl the Sunless",
			Map:             "Sparkfly Fen",
			Waypoint:        "[&BEMCAAA=]",
			DurationMinutes: 15,
			UTCTimes:        []string{"00:00", "03:00", "06:00", "07:00", "11:30", "16:00", "19:00"},
			Rewards: []rewardSpec{
				{Kind: "currency", Name: "Dragonite Ore", Amount: 45},
			},
		},
		"lla": {
			Name:            "Ley-Line Anomaly",
			DurationMinutes: 15,
			Locations: []locationSpec{
				{
					ID:       "timberline_falls",
					Map:      "Timberline Falls",
					Waypoint: "[&BH4BAAA=]",
					UTCTimes: []string{"00:20", "06:20", "12:20", "18:20"},
				},
				{
					ID:       "iron_marches",
					Map:      "Iron Marches",
					Waypoint: "[&BHoAAAA=]",
					UTCTimes: []string{"02:20", "08:20", "14:20", "20:20"},
				},
				{
					ID:       "gendarran_fields",
					Map:      "Gendarran Fields",
					Waypoint: "[&BEEAAAA=]",
					UTCTimes: []string{"04:20", "10:20", "16:20", "22:20"},
				},
			},
			Rewards: []rewardSpec{
				{Kind: "item", Name: "Mystic Coin", ItemID: 19976},
			},
		},
		"ds_dragonstorm": {
			Name:            "Dragonstorm",
			Map:             "Eye of the North",
			Waypoint:        "[&BPEHAAA=]",
			DurationMinutes: 15,
			UTCTimes: []string{
				"01:00", "03:00", "05:00", "07:00", "09:00", "11:00",
				"13:00", "15:00", "17:00", "19:00", "21:00", "23:00",
			},
		},
		"sb_shadow_behemoth": {
			Name:            "Shadow Behemoth",
			Map:             "Queensdale",
			Waypoint:        "[&BPcAAAA=]",
			DurationMinutes: 10,
			UTCTimes: []string{
				"01:45", "03:45", "05:45", "07:45", "09:45", "11:45",
				"13:45", "15:45", "17:45", "19:45", "21:45", "23:45",
			},
		},
		"gjw_great_jungle_wurm": {
			Name:            "Great Jungle Wurm",
			Map:             "Caledon Forest",
			Waypoint:        "[&BDAAAAA=]",
			DurationMinutes: 10,
			UTCTimes: []string{
				"01:15", "03:15", "05:15", "07:15", "09:15", "11:15",
				"13:15", "15:15", "17:15", "19:15", "21:15", "23:15",
			},
		},
		"coj_claw_of_jormag": {
			Name:            "Claw of Jormag",
			Map:             "Frostgorge Sound",
			Waypoint:        "[&BHMHAAA=]",
			DurationMinutes: 15,
			UTCTimes:        []string{"02:30", "05:30", "08:30", "11:30", "14:30", "17:30", "20:30", "23:30"},
		},
		"ab_auric_basin": {
			Name:            "Auric Basin Octovine",
			Map:             "Auric Basin",
			Waypoint:        "[&BIMHAAA=]",
			DurationMinutes: 20,
			UTCTimes: []string{
				"01:00", "03:00", "05:00", "07:00", "09:00", "11:00",
				"13:00", "15:00", "17:00", "19:00", "21:00", "23:00",
			},
		},
	},
	Tasks: map[string][]taskSpec{
		"gathering": {
			{ID: "vine_bridge", Name: "Vine Bridge", Waypoint: "[&BIYHAAA=]"},
			{ID: "prosperity", Name: "Prosperity", Waypoint: "[&BHoHAAA=]"},
			{ID: "destinys_gorge", Name: "Destiny's Gorge", Waypoint: "[&BJMKAAA=]"},
		},
		"crafting": {
			{ID: "mithrillium", Name: "Lump of Mithrillium"},
			{ID: "elonian_cord", Name: "Spool of Thick Elonian Cord"},
			{ID: "spirit_residue", Name: "Glob of Elder Spirit Residue"},
			{ID: "gossamer", Name: "Gossamer Stuffing"},
		},
		"special": {
			{ID: "psna", Name: "Pact Supply Network Agent"},
			{ID: "home_instance", Name: "Home Instance", Waypoint: "[&BLQEAAA=]"},
		},
	},
}

// psnaRotation maps UTC weekday (0 = Sunday) to that day's Pact Supply
// Network Agent camp.
var psnaRotation = map[int]struct {
	name     string
	waypoint string
}{
	0: {"Repair Station", "[&BIkHAAA=]"},
	1: {"Restoration Refuge", "[&BIcHAAA=]"},
	2: {"Camp Resolve", "[&BH8HAAA=]"},
	3: {"Town of Prosperity", "[&BH4HAAA=]"},
	4: {"Blue Oasis", "[&BKsHAAA=]"},
	5: {"Repair Station", "[&BJQHAAA=]"},
	6: {"Camp Resolve", "[&BH8HAAA=]"},
}
