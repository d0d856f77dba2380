package grievance

import "strings"

// DefaultDepartment handles anything the routing table does not cover.
const DefaultDepartment = "General Administration"

// RuralDevelopmentDepartment takes over infrastructure grievances filed from
// rural locations.
const RuralDevelopmentDepartment = "Rural Development Department"

var departmentByCategory = map[Category]string{
	CategoryInfrastructure: "Public Works Department",
	CategoryWater:          "Water Supply Department",
	CategoryElectricity:    "Electricity Board",
	CategoryHealthcare:     "Health Department",
	CategoryEducation:      "Education Department",
	CategoryEnvironment:    "Environment Department",
	CategoryGeneral:        DefaultDepartment,
}

// Route maps a category and location to the responsible department. The only
// location override: infrastructure grievances whose location mentions
// "rural" go to rural development instead of public works. Total; always
// returns a non-empty department.
func Route(category Category, location string) string {
	if category == CategoryInfrastructure && strings.Contains(strings.ToLower(location), "rural") {
		return RuralDevelopmentDepartment
	}
	if dept, ok := departmentByCategory[category]; ok {
		return dept
	}
	return DefaultDepartment
}
