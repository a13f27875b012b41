// Package csv loads the planner's static scenario inputs — network
// topology, demand forecast, labor calendar, truck schedules, and initial
// inventory — from flat CSV files, grounded on the teacher's Loader
// (pkg/infrastructure/repositories/csv/csv_loader.go): one exported method
// per file kind, a validated header check, and a row-by-row parse that
// wraps every failure with its 1-indexed row number.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/breadnet/planner/pkg/domain/entities"
)

// Loader reads scenario input files from disk.
type Loader struct{}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

func readAll(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have a header and at least one data row", filename)
	}
	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

// LoadNetwork loads nodes from nodesFile and route legs from legsFile.
func (l *Loader) LoadNetwork(nodesFile, legsFile string) (entities.Network, error) {
	nodes, err := l.loadNodes(nodesFile)
	if err != nil {
		return entities.Network{}, err
	}
	legs, err := l.loadLegs(legsFile)
	if err != nil {
		return entities.Network{}, err
	}
	return entities.Network{Nodes: nodes, Legs: legs}, nil
}

func (l *Loader) loadNodes(filename string) ([]entities.Node, error) {
	records, err := readAll(filename)
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"id", "kind", "storage_modes", "capacity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("nodes CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var nodes []entities.Node
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("nodes CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		node, err := parseNode(record)
		if err != nil {
			return nil, fmt.Errorf("nodes CSV row %d: %w", i+2, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func parseNode(record []string) (entities.Node, error) {
	id := entities.NodeID(record[0])

	kind, err := parseNodeKind(record[1])
	if err != nil {
		return entities.Node{}, err
	}

	var storageModes []entities.State
	for _, s := range strings.Split(record[2], "|") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		state, err := parseState(s)
		if err != nil {
			return entities.Node{}, err
		}
		storageModes = append(storageModes, state)
	}

	var capacity *entities.Quantity
	if c := strings.TrimSpace(record[3]); c != "" {
		parsed, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return entities.Node{}, fmt.Errorf("invalid capacity: %s", record[3])
		}
		qty := entities.Quantity(parsed)
		capacity = &qty
	}

	return entities.NewNode(id, kind, storageModes, capacity)
}

func parseNodeKind(s string) (entities.NodeKind, error) {
	switch strings.ToLower(s) {
	case "manufacturing":
		return entities.Manufacturing, nil
	case "hub":
		return entities.Hub, nil
	case "storage":
		return entities.Storage, nil
	case "breadroom":
		return entities.Breadroom, nil
	default:
		return 0, fmt.Errorf("invalid node kind: %s (expected Manufacturing, Hub, Storage, or Breadroom)", s)
	}
}

func parseState(s string) (entities.State, error) {
	switch strings.ToLower(s) {
	case "frozen":
		return entities.StateFrozen, nil
	case "ambient":
		return entities.StateAmbient, nil
	case "thawed":
		return entities.StateThawed, nil
	default:
		return 0, fmt.Errorf("invalid state: %s (expected Frozen, Ambient, or Thawed)", s)
	}
}

func (l *Loader) loadLegs(filename string) ([]entities.RouteLeg, error) {
	records, err := readAll(filename)
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"id", "origin", "destination", "transit_days", "transport_mode", "cost_per_unit", "capacity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("legs CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var legs []entities.RouteLeg
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("legs CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		leg, err := parseLeg(record)
		if err != nil {
			return nil, fmt.Errorf("legs CSV row %d: %w", i+2, err)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

func parseLeg(record []string) (entities.RouteLeg, error) {
	id := entities.LegID(record[0])
	origin := entities.NodeID(record[1])
	destination := entities.NodeID(record[2])

	transitDays, err := strconv.Atoi(record[3])
	if err != nil {
		return entities.RouteLeg{}, fmt.Errorf("invalid transit_days: %s", record[3])
	}

	mode, err := parseState(record[4])
	if err != nil {
		return entities.RouteLeg{}, err
	}

	costPerUnit, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return entities.RouteLeg{}, fmt.Errorf("invalid cost_per_unit: %s", record[5])
	}

	var capacity *entities.Quantity
	if c := strings.TrimSpace(record[6]); c != "" {
		parsed, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return entities.RouteLeg{}, fmt.Errorf("invalid capacity: %s", record[6])
		}
		qty := entities.Quantity(parsed)
		capacity = &qty
	}

	return entities.NewRouteLeg(id, origin, destination, transitDays, mode, costPerUnit, capacity)
}

// LoadForecast loads a demand forecast from a CSV file.
func (l *Loader) LoadForecast(filename string) (entities.Forecast, error) {
	records, err := readAll(filename)
	if err != nil {
		return entities.Forecast{}, err
	}

	expectedHeader := []string{"node", "product", "date", "quantity"}
	if !validateHeader(records[0], expectedHeader) {
		return entities.Forecast{}, fmt.Errorf("forecast CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var entries []entities.DemandPoint
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return entities.Forecast{}, fmt.Errorf("forecast CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		date, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			return entities.Forecast{}, fmt.Errorf("forecast CSV row %d: invalid date %s (expected YYYY-MM-DD)", i+2, record[2])
		}
		quantity, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return entities.Forecast{}, fmt.Errorf("forecast CSV row %d: invalid quantity %s", i+2, record[3])
		}

		point, err := entities.NewDemandPoint(entities.NodeID(record[0]), entities.ProductID(record[1]), date, entities.Quantity(quantity))
		if err != nil {
			return entities.Forecast{}, fmt.Errorf("forecast CSV row %d: %w", i+2, err)
		}
		entries = append(entries, point)
	}
	return entities.Forecast{Entries: entries}, nil
}

// LoadLaborCalendar loads the labor calendar from a CSV file.
func (l *Loader) LoadLaborCalendar(filename string) (entities.LaborCalendar, error) {
	records, err := readAll(filename)
	if err != nil {
		return entities.LaborCalendar{}, err
	}

	expectedHeader := []string{"date", "is_fixed_day", "fixed_hours", "regular_rate", "overtime_rate", "non_fixed_rate"}
	if !validateHeader(records[0], expectedHeader) {
		return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var days []entities.LaborDay
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: invalid date %s", i+2, record[0])
		}
		isFixedDay, err := strconv.ParseBool(record[1])
		if err != nil {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: invalid is_fixed_day %s", i+2, record[1])
		}
		fixedHours, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: invalid fixed_hours %s", i+2, record[2])
		}
		regularRate, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: invalid regular_rate %s", i+2, record[3])
		}
		overtimeRate, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: invalid overtime_rate %s", i+2, record[4])
		}
		nonFixedRate, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: invalid non_fixed_rate %s", i+2, record[5])
		}

		day, err := entities.NewLaborDay(date, isFixedDay, fixedHours, regularRate, overtimeRate, nonFixedRate)
		if err != nil {
			return entities.LaborCalendar{}, fmt.Errorf("labor calendar CSV row %d: %w", i+2, err)
		}
		days = append(days, day)
	}
	return entities.NewLaborCalendar(days)
}

// LoadTruckSchedules loads recurring truck departures from a CSV file.
func (l *Loader) LoadTruckSchedules(filename string) (entities.TruckSchedules, error) {
	records, err := readAll(filename)
	if err != nil {
		return entities.TruckSchedules{}, err
	}

	expectedHeader := []string{"id", "days_of_week", "window", "origin", "destinations", "pallet_capacity", "loading_policy"}
	if !validateHeader(records[0], expectedHeader) {
		return entities.TruckSchedules{}, fmt.Errorf("truck schedules CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var schedules []entities.TruckSchedule
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return entities.TruckSchedules{}, fmt.Errorf("truck schedules CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		schedule, err := parseTruckSchedule(record)
		if err != nil {
			return entities.TruckSchedules{}, fmt.Errorf("truck schedules CSV row %d: %w", i+2, err)
		}
		schedules = append(schedules, schedule)
	}
	return entities.TruckSchedules{Schedules: schedules}, nil
}

func parseTruckSchedule(record []string) (entities.TruckSchedule, error) {
	id := record[0]

	var daysOfWeek []time.Weekday
	for _, d := range strings.Split(record[1], "|") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		weekday, err := parseWeekday(d)
		if err != nil {
			return entities.TruckSchedule{}, err
		}
		daysOfWeek = append(daysOfWeek, weekday)
	}

	window, err := parseWindow(record[2])
	if err != nil {
		return entities.TruckSchedule{}, err
	}

	origin := entities.NodeID(record[3])

	var destinations []entities.NodeID
	for _, d := range strings.Split(record[4], "|") {
		d = strings.TrimSpace(d)
		if d != "" {
			destinations = append(destinations, entities.NodeID(d))
		}
	}

	palletCapacity, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return entities.TruckSchedule{}, fmt.Errorf("invalid pallet_capacity: %s", record[5])
	}

	policy, err := parseLoadingPolicy(record[6])
	if err != nil {
		return entities.TruckSchedule{}, err
	}

	return entities.NewTruckSchedule(id, daysOfWeek, window, origin, destinations, palletCapacity, policy)
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("invalid day of week: %s", s)
	}
}

func parseWindow(s string) (entities.DepartureWindow, error) {
	switch strings.ToLower(s) {
	case "morning":
		return entities.Morning, nil
	case "afternoon":
		return entities.Afternoon, nil
	default:
		return 0, fmt.Errorf("invalid departure window: %s (expected Morning or Afternoon)", s)
	}
}

func parseLoadingPolicy(s string) (entities.LoadingPolicy, error) {
	switch strings.ToLower(s) {
	case "d", "loadsameday":
		return entities.LoadSameDay, nil
	case "d-1", "loadpriorday":
		return entities.LoadPriorDay, nil
	default:
		return 0, fmt.Errorf("invalid loading policy: %s (expected D or D-1)", s)
	}
}

// LoadInitialInventory loads the pre-horizon inventory snapshot from a CSV file.
func (l *Loader) LoadInitialInventory(filename string, snapshotDate time.Time) (entities.InitialInventory, error) {
	records, err := readAll(filename)
	if err != nil {
		return entities.InitialInventory{}, err
	}

	expectedHeader := []string{"node", "product", "state", "quantity"}
	if !validateHeader(records[0], expectedHeader) {
		return entities.InitialInventory{}, fmt.Errorf("initial inventory CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	entries := make(map[entities.InitialInventoryKey]entities.Quantity)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return entities.InitialInventory{}, fmt.Errorf("initial inventory CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		state, err := parseState(record[2])
		if err != nil {
			return entities.InitialInventory{}, fmt.Errorf("initial inventory CSV row %d: %w", i+2, err)
		}
		quantity, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return entities.InitialInventory{}, fmt.Errorf("initial inventory CSV row %d: invalid quantity %s", i+2, record[3])
		}

		key := entities.InitialInventoryKey{Node: entities.NodeID(record[0]), Product: entities.ProductID(record[1]), State: state}
		entries[key] += entities.Quantity(quantity)
	}
	return entities.InitialInventory{SnapshotDate: entities.NormalizeDate(snapshotDate), Entries: entries}, nil
}

// LoadProducts loads the product catalog from a CSV file.
func (l *Loader) LoadProducts(filename string) ([]entities.Product, error) {
	records, err := readAll(filename)
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"id"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("products CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var products []entities.Product
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("products CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		product, err := entities.NewProduct(entities.ProductID(record[0]))
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}
	return products, nil
}
