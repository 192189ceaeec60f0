package seed

import "cropcura/internal/types"

func pt(lat, lng float64) types.FieldCoordinate {
	return types.FieldCoordinate{Lat: lat, Lng: lng}
}

// officerFields are the fields shown on "My Fields" at session start.
func officerFields() []types.Field {
	return []types.Field{
		{
			ID: "field-1", Name: "North Maize Plot", HealthStatus: types.HealthHealthy,
			LastUpdated: "2024-01-15T10:30:00Z", Area: 12.5, CropType: "Maize",
			Coordinates: []types.FieldCoordinate{pt(-1.2821, 36.8219), pt(-1.2801, 36.8259), pt(-1.2841, 36.8279), pt(-1.2861, 36.8239)},
		},
		{
			ID: "field-2", Name: "River Valley Rice", HealthStatus: types.HealthModerate,
			LastUpdated: "2024-01-14T14:20:00Z", Area: 8.3, CropType: "Rice",
			Coordinates: []types.FieldCoordinate{pt(-1.2751, 36.8319), pt(-1.2731, 36.8359), pt(-1.2771, 36.8379), pt(-1.2791, 36.8339)},
		},
		{
			ID: "field-3", Name: "Highland Wheat Field", HealthStatus: types.HealthUnhealthy,
			LastUpdated: "2024-01-13T09:15:00Z", Area: 15.7, CropType: "Wheat",
			Coordinates: []types.FieldCoordinate{pt(-1.2891, 36.8119), pt(-1.2871, 36.8159), pt(-1.2911, 36.8179), pt(-1.2931, 36.8139)},
		},
		{
			ID: "field-4", Name: "Eastern Cassava Farm", HealthStatus: types.HealthHealthy,
			LastUpdated: "2024-01-15T08:45:00Z", Area: 6.2, CropType: "Cassava",
			Coordinates: []types.FieldCoordinate{pt(-1.2681, 36.8419), pt(-1.2661, 36.8459), pt(-1.2701, 36.8479), pt(-1.2721, 36.8439)},
		},
		{
			ID: "field-5", Name: "South Soybean Patch", HealthStatus: types.HealthModerate,
			LastUpdated: "2024-01-12T16:30:00Z", Area: 9.8, CropType: "Soybeans",
			Coordinates: []types.FieldCoordinate{pt(-1.2951, 36.8019), pt(-1.2931, 36.8059), pt(-1.2971, 36.8079), pt(-1.2991, 36.8039)},
		},
	}
}

// farmerFields maps the first five farmers to their registered plots.
func farmerFields() map[string][]types.Field {
	return map[string][]types.Field{
		"FRM-1001": {
			{
				ID: "field-101", Name: "Main Maize Plot", HealthStatus: types.HealthHealthy,
				LastUpdated: "2 days ago", Area: 2.5, CropType: "Maize",
				Coordinates: []types.FieldCoordinate{pt(-1.2821, 36.8219), pt(-1.2831, 36.8249), pt(-1.2861, 36.8239), pt(-1.2851, 36.8209)},
			},
			{
				ID: "field-102", Name: "South Rice Field", HealthStatus: types.HealthModerate,
				LastUpdated: "1 week ago", Area: 1.8, CropType: "Rice",
				Coordinates: []types.FieldCoordinate{pt(-1.2881, 36.8229), pt(-1.2891, 36.8259), pt(-1.2921, 36.8249), pt(-1.2911, 36.8219)},
			},
		},
		"FRM-1002": {
			{
				ID: "field-103", Name: "Northern Wheat Section", HealthStatus: types.HealthHealthy,
				LastUpdated: "3 days ago", Area: 3.2, CropType: "Wheat",
				Coordinates: []types.FieldCoordinate{pt(0.5143, 35.2698), pt(0.5153, 35.2728), pt(0.5183, 35.2718), pt(0.5173, 35.2688)},
			},
		},
		"FRM-1003": {
			{
				ID: "field-104", Name: "Cassava Field A", HealthStatus: types.HealthUnhealthy,
				LastUpdated: "1 day ago", Area: 1.5, CropType: "Cassava",
				Coordinates: []types.FieldCoordinate{pt(-0.0917, 34.7680), pt(-0.0927, 34.7710), pt(-0.0957, 34.7700), pt(-0.0947, 34.7670)},
			},
			{
				ID: "field-105", Name: "Cassava Field B", HealthStatus: types.HealthModerate,
				LastUpdated: "4 days ago", Area: 2.0, CropType: "Cassava",
				Coordinates: []types.FieldCoordinate{pt(-0.0977, 34.7690), pt(-0.0987, 34.7720), pt(-0.1017, 34.7710), pt(-0.1007, 34.7680)},
			},
		},
		"FRM-1004": {
			{
				ID: "field-106", Name: "Soybean Plot", HealthStatus: types.HealthHealthy,
				LastUpdated: "5 days ago", Area: 4.0, CropType: "Soybeans",
				Coordinates: []types.FieldCoordinate{pt(-1.0432, 37.0732), pt(-1.0442, 37.0762), pt(-1.0472, 37.0752), pt(-1.0462, 37.0722)},
			},
		},
		"FRM-1005": {
			{
				ID: "field-107", Name: "Rice Paddy East", HealthStatus: types.HealthHealthy,
				LastUpdated: "2 days ago", Area: 2.8, CropType: "Rice",
				Coordinates: []types.FieldCoordinate{pt(-4.0435, 39.6682), pt(-4.0445, 39.6712), pt(-4.0475, 39.6702), pt(-4.0465, 39.6672)},
			},
			{
				ID: "field-108", Name: "Rice Paddy West", HealthStatus: types.HealthModerate,
				LastUpdated: "1 week ago", Area: 2.2, CropType: "Rice",
				Coordinates: []types.FieldCoordinate{pt(-4.0495, 39.6642), pt(-4.0505, 39.6672), pt(-4.0535, 39.6662), pt(-4.0525, 39.6632)},
			},
		},
	}
}

// ScoreTrends is the static six-month portfolio history.
func ScoreTrends() []types.ScoreTrend {
	return []types.ScoreTrend{
		{Month: "Jul", AverageScore: 658, HighRisk: 22, LowRisk: 45},
		{Month: "Aug", AverageScore: 665, HighRisk: 20, LowRisk: 48},
		{Month: "Sep", AverageScore: 672, HighRisk: 19, LowRisk: 50},
		{Month: "Oct", AverageScore: 678, HighRisk: 18, LowRisk: 52},
		{Month: "Nov", AverageScore: 682, HighRisk: 17, LowRisk: 54},
		{Month: "Dec", AverageScore: 685, HighRisk: 18, LowRisk: 53},
	}
}
