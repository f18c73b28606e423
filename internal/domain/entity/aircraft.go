package entity

import "strings"

// Aircraft maps an ICAO-style type code to its marketing name
type Aircraft struct {
	Code string
	Name string
}

// DefaultAircraft is the built-in catalogue
var DefaultAircraft = []Aircraft{
	{Code: "B77W", Name: "Boeing 777-300ER"},
	{Code: "B77L", Name: "Boeing 777-200LR"},
	{Code: "A333", Name: "Airbus A330-300"},
	{Code: "B788", Name: "Boeing 787-8"},
	{Code: "B789", Name: "Boeing 787-9"},
	{Code: "A321", Name: "Airbus A321-200"},
	{Code: "B737", Name: "Boeing 737 MAX-8"},
	{Code: "A223", Name: "Airbus A220-300"},
	{Code: "A320", Name: "Airbus A320-200"},
	{Code: "A319", Name: "Airbus A319-100"},
	{Code: "CR9", Name: "CRJ-900"},
	{Code: "E75", Name: "Embraer 175"},
	{Code: "DH4J", Name: "De Havilland Dash 8-400"},
}

// NormalizeAircraftCode uppercases and trims a type code
func NormalizeAircraftCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
