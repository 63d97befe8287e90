// Package pricelist parses supplier price documents. Two formats are
// accepted: the YAML layout (shop, categories, goods) and a flat XLSX
// sheet. Both are reduced to the same Document before import.
package pricelist

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid price document")

type Format string

const (
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

type Good struct {
	ExternalID string
	Category   string
	Model      string
	Name       string
	Price      float64
	PriceRRC   *float64
	Quantity   uint
	Parameters map[string]string
}

type Document struct {
	Shop       string
	Categories []string
	Goods      []Good
}

func Parse(r io.Reader, format Format) (*Document, error) {
	switch format {
	case FormatYAML:
		return parseYAML(r)
	case FormatXLSX:
		return parseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalid, format)
	}
}

type yamlCategory struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`
}

type yamlGood struct {
	ID         any            `yaml:"id"`
	Category   uint64         `yaml:"category"`
	Model      string         `yaml:"model"`
	Name       string         `yaml:"name"`
	Price      float64        `yaml:"price"`
	PriceRRC   *float64       `yaml:"price_rrc"`
	Quantity   uint           `yaml:"quantity"`
	Parameters map[string]any `yaml:"parameters"`
}

type yamlDocument struct {
	Shop       string         `yaml:"shop"`
	Categories []yamlCategory `yaml:"categories"`
	Goods      []yamlGood     `yaml:"goods"`
}

func parseYAML(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw yamlDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	doc := &Document{Shop: strings.TrimSpace(raw.Shop)}
	byID := make(map[uint64]string, len(raw.Categories))
	for _, c := range raw.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category %d has no name", ErrInvalid, c.ID)
		}
		byID[c.ID] = name
		doc.Categories = append(doc.Categories, name)
	}

	for i, g := range raw.Goods {
		category, ok := byID[g.Category]
		if !ok {
			return nil, fmt.Errorf("%w: goods[%d] references unknown category %d", ErrInvalid, i, g.Category)
		}
		params := make(map[string]string, len(g.Parameters))
		for k, v := range g.Parameters {
			params[strings.TrimSpace(k)] = scalarString(v)
		}
		doc.Goods = append(doc.Goods, Good{
			ExternalID: scalarString(g.ID),
			Category:   category,
			Model:      strings.TrimSpace(g.Model),
			Name:       strings.TrimSpace(g.Name),
			Price:      g.Price,
			PriceRRC:   g.PriceRRC,
			Quantity:   g.Quantity,
			Parameters: params,
		})
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseXLSX reads the flat layout: A1="shop", B1=name; row 2 holds the
// headers (id, category, model, name, price, price_rrc, quantity,
// then one column per parameter); goods start at row 3.
func parseXLSX(r io.Reader) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 || !strings.EqualFold(strings.TrimSpace(rows[0][0]), "shop") {
		return nil, fmt.Errorf("%w: missing shop header row", ErrInvalid)
	}

	doc := &Document{Shop: strings.TrimSpace(rows[0][1])}

	header := rows[1]
	col := make(map[string]int, len(header))
	var paramCols []int
	for i, h := range header {
		name := strings.TrimSpace(h)
		switch strings.ToLower(name) {
		case "id", "category", "model", "name", "price", "price_rrc", "quantity":
			col[strings.ToLower(name)] = i
		default:
			if name != "" {
				paramCols = append(paramCols, i)
			}
		}
	}
	for _, required := range []string{"id", "category", "name", "price", "quantity"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalid, required)
		}
	}

	seenCategories := make(map[string]bool)
	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	for n, row := range rows[2:] {
		if len(row) == 0 {
			continue
		}
		price, err := strconv.ParseFloat(cell(row, col["price"]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: non-numeric price %q", ErrInvalid, n+3, cell(row, col["price"]))
		}
		quantity, err := strconv.ParseUint(cell(row, col["quantity"]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: non-numeric quantity %q", ErrInvalid, n+3, cell(row, col["quantity"]))
		}

		var priceRRC *float64
		if i, ok := col["price_rrc"]; ok && cell(row, i) != "" {
			v, err := strconv.ParseFloat(cell(row, i), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: non-numeric price_rrc %q", ErrInvalid, n+3, cell(row, i))
			}
			priceRRC = &v
		}

		params := make(map[string]string)
		for _, i := range paramCols {
			if v := cell(row, i); v != "" {
				params[strings.TrimSpace(header[i])] = v
			}
		}

		g := Good{
			ExternalID: cell(row, col["id"]),
			Category:   cell(row, col["category"]),
			Name:       cell(row, col["name"]),
			Price:      price,
			Quantity:   uint(quantity),
			PriceRRC:   priceRRC,
			Parameters: params,
		}
		if i, ok := col["model"]; ok {
			g.Model = cell(row, i)
		}
		if g.Category != "" && !seenCategories[g.Category] {
			seenCategories[g.Category] = true
			doc.Categories = append(doc.Categories, g.Category)
		}
		doc.Goods = append(doc.Goods, g)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) validate() error {
	if d.Shop == "" {
		return fmt.Errorf("%w: shop name is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(d.Goods))
	for i, g := range d.Goods {
		switch {
		case g.ExternalID == "":
			return fmt.Errorf("%w: goods[%d]: id is required", ErrInvalid, i)
		case g.Name == "":
			return fmt.Errorf("%w: goods[%d]: name is required", ErrInvalid, i)
		case g.Category == "":
			return fmt.Errorf("%w: goods[%d]: category is required", ErrInvalid, i)
		case g.Price <= 0:
			return fmt.Errorf("%w: goods[%d]: price must be positive", ErrInvalid, i)
		}
		if seen[g.ExternalID] {
			return fmt.Errorf("%w: duplicate goods id %q", ErrInvalid, g.ExternalID)
		}
		seen[g.ExternalID] = true
	}
	return nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
