package report

import (
	"context"
	"fmt"
	"io"

	"innkeep/internal/database"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Generator строит Excel отчеты по номерам и бронированиям
type Generator struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewGenerator(db *database.DB, logger *zerolog.Logger) *Generator {
	return &Generator{db: db, logger: logger}
}

// WriteBookingsReport записывает отчет в w как xlsx файл
func (g *Generator) WriteBookingsReport(ctx context.Context, w io.Writer) error {
	rooms, err := g.db.ListRooms(ctx, false)
	if err != nil {
		return fmt.Errorf("error getting rooms: %v", err)
	}

	bookings, err := g.db.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("error getting bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := g.writeRoomsSheet(f, rooms); err != nil {
		return err
	}
	if err := g.writeBookingsSheet(f, bookings, rooms); err != nil {
		return err
	}

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing file: %v", err)
	}

	g.logger.Info().
		Int("rooms", len(rooms)).
		Int("bookings", len(bookings)).
		Msg("Bookings report generated")
	return nil
}

func (g *Generator) writeRoomsSheet(f *excelize.File, rooms []models.Room) error {
	const sheetName = "Rooms"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	writeHeaders(f, sheetName, []string{"ID", "Number", "Type", "Available", "Created At"})

	for i, room := range rooms {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), room.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), room.Number)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), room.Type)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), boolToYesNo(room.IsAvailable))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), room.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "C", 15)
	_ = f.SetColWidth(sheetName, "D", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "E", 20)
	return nil
}

func (g *Generator) writeBookingsSheet(f *excelize.File, bookings []models.Booking, rooms []models.Room) error {
	const sheetName = "Bookings"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	writeHeaders(f, sheetName, []string{"ID", "Room ID", "Room Number", "Guest", "Nights", "Created At"})

	roomNumbers := make(map[int64]string, len(rooms))
	for _, room := range rooms {
		roomNumbers[room.ID] = room.Number
	}

	for i, booking := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.RoomID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), roomNumbers[booking.RoomID])
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.GuestName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.Nights)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "D", 20)
	_ = f.SetColWidth(sheetName, "E", "E", 10)
	_ = f.SetColWidth(sheetName, "F", "F", 20)
	return nil
}

func writeHeaders(f *excelize.File, sheetName string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

// boolToYesNo преобразует bool в "Yes"/"No"
func boolToYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
