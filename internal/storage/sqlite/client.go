package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/agroandes/backend/internal/storage/models"
	"github.com/agroandes/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crops (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		cycle_days INTEGER NOT NULL,
		planting_density TEXT,
		image TEXT
	);

	CREATE TABLE IF NOT EXISTS conditions (
		crop_id INTEGER PRIMARY KEY,
		temp_min REAL NOT NULL,
		temp_max REAL NOT NULL,
		precip_min REAL NOT NULL,
		precip_max REAL NOT NULL,
		altitude_min REAL NOT NULL,
		altitude_max REAL NOT NULL,
		ph_min REAL NOT NULL,
		ph_max REAL NOT NULL,
		soil_type TEXT,
		FOREIGN KEY (crop_id) REFERENCES crops(id)
	);

	CREATE TABLE IF NOT EXISTS costs (
		crop_id INTEGER PRIMARY KEY,
		investment_min REAL NOT NULL,
		investment_max REAL NOT NULL,
		operating_cost REAL NOT NULL,
		domestic_price REAL,
		export_price REAL,
		profitability REAL NOT NULL,
		FOREIGN KEY (crop_id) REFERENCES crops(id)
	);

	CREATE TABLE IF NOT EXISTS zones (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL,
		region TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_zones_department ON zones(department);

	CREATE TABLE IF NOT EXISTS crop_zone (
		crop_id INTEGER NOT NULL,
		zone_id INTEGER NOT NULL,
		PRIMARY KEY (crop_id, zone_id),
		FOREIGN KEY (crop_id) REFERENCES crops(id),
		FOREIGN KEY (zone_id) REFERENCES zones(id)
	);

	CREATE TABLE IF NOT EXISTS pests (
		id INTEGER PRIMARY KEY,
		crop_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		kind TEXT,
		severity TEXT,
		control TEXT,
		FOREIGN KEY (crop_id) REFERENCES crops(id)
	);
	CREATE INDEX IF NOT EXISTS idx_pests_crop ON pests(crop_id);

	CREATE TABLE IF NOT EXISTS inputs (
		id INTEGER PRIMARY KEY,
		crop_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT,
		unit TEXT,
		avg_price REAL NOT NULL,
		quantity_per_ha REAL NOT NULL,
		application_stage TEXT,
		frequency TEXT,
		FOREIGN KEY (crop_id) REFERENCES crops(id)
	);
	CREATE INDEX IF NOT EXISTS idx_inputs_crop ON inputs(crop_id);

	CREATE TABLE IF NOT EXISTS techniques (
		id INTEGER PRIMARY KEY,
		crop_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT,
		description TEXT,
		benefits TEXT,
		importance TEXT,
		application_stage TEXT,
		FOREIGN KEY (crop_id) REFERENCES crops(id)
	);
	CREATE INDEX IF NOT EXISTS idx_techniques_crop ON techniques(crop_id);

	CREATE TABLE IF NOT EXISTS certifications (
		id INTEGER PRIMARY KEY,
		crop_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		issuer TEXT,
		target_market TEXT,
		price_premium REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (crop_id) REFERENCES crops(id)
	);
	CREATE INDEX IF NOT EXISTS idx_certifications_crop ON certifications(crop_id);

	CREATE TABLE IF NOT EXISTS suppliers (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT,
		contact TEXT,
		location TEXT,
		website TEXT,
		phone TEXT
	);

	CREATE TABLE IF NOT EXISTS supplier_input (
		supplier_id INTEGER NOT NULL,
		input_id INTEGER NOT NULL,
		price REAL NOT NULL,
		availability TEXT,
		PRIMARY KEY (supplier_id, input_id),
		FOREIGN KEY (supplier_id) REFERENCES suppliers(id),
		FOREIGN KEY (input_id) REFERENCES inputs(id)
	);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// LoadDataset reads the full reference dataset into memory. The engine
// operates on the returned snapshot only; the connection is not used
// again after startup.
func (c *Client) LoadDataset() (*models.Dataset, error) {
	ds := &models.Dataset{
		Tolerances:     make(map[int64]models.EnvironmentalTolerance),
		Economics:      make(map[int64]models.EconomicProfile),
		ZoneCrops:      make(map[int64][]int64),
		Pests:          make(map[int64][]models.Pest),
		Inputs:         make(map[int64][]models.CropInput),
		Techniques:     make(map[int64][]models.Technique),
		Certifications: make(map[int64][]models.Certification),
		Suppliers:      make(map[int64]models.Supplier),
		SupplierInputs: make(map[int64][]models.SupplierInput),
	}

	if err := c.loadCrops(ds); err != nil {
		return nil, err
	}
	if err := c.loadConditions(ds); err != nil {
		return nil, err
	}
	if err := c.loadCosts(ds); err != nil {
		return nil, err
	}
	if err := c.loadZones(ds); err != nil {
		return nil, err
	}
	if err := c.loadPests(ds); err != nil {
		return nil, err
	}
	if err := c.loadInputs(ds); err != nil {
		return nil, err
	}
	if err := c.loadTechniques(ds); err != nil {
		return nil, err
	}
	if err := c.loadCertifications(ds); err != nil {
		return nil, err
	}
	if err := c.loadSuppliers(ds); err != nil {
		return nil, err
	}

	logger.Info("Reference dataset loaded",
		zap.Int("crops", len(ds.Crops)),
		zap.Int("zones", len(ds.Zones)),
		zap.Int("suppliers", len(ds.Suppliers)),
	)

	return ds, nil
}

func (c *Client) loadCrops(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT id, name, category, description, cycle_days, planting_density, image FROM crops ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load crops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cr models.CropProfile
		var description, density, image sql.NullString

		err := rows.Scan(&cr.ID, &cr.Name, &cr.Category, &description, &cr.CycleDays, &density, &image)
		if err != nil {
			return fmt.Errorf("failed to scan crop row: %w", err)
		}

		cr.Description = description.String
		cr.PlantingDensity = density.String
		cr.Image = image.String
		ds.Crops = append(ds.Crops, cr)
	}

	return rows.Err()
}

func (c *Client) loadConditions(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT crop_id, temp_min, temp_max, precip_min, precip_max, altitude_min, altitude_max, ph_min, ph_max, soil_type FROM conditions`)
	if err != nil {
		return fmt.Errorf("failed to load conditions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.EnvironmentalTolerance
		var soil sql.NullString

		err := rows.Scan(&t.CropID, &t.TempMin, &t.TempMax, &t.PrecipMin, &t.PrecipMax,
			&t.AltitudeMin, &t.AltitudeMax, &t.PHMin, &t.PHMax, &soil)
		if err != nil {
			return fmt.Errorf("failed to scan condition row: %w", err)
		}

		t.SoilType = soil.String
		ds.Tolerances[t.CropID] = t
	}

	return rows.Err()
}

func (c *Client) loadCosts(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT crop_id, investment_min, investment_max, operating_cost, domestic_price, export_price, profitability FROM costs`)
	if err != nil {
		return fmt.Errorf("failed to load costs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.EconomicProfile
		var domestic, export sql.NullFloat64

		err := rows.Scan(&e.CropID, &e.InvestmentMin, &e.InvestmentMax, &e.OperatingCost,
			&domestic, &export, &e.Profitability)
		if err != nil {
			return fmt.Errorf("failed to scan cost row: %w", err)
		}

		if domestic.Valid {
			v := domestic.Float64
			e.DomesticPrice = &v
		}
		if export.Valid {
			v := export.Float64
			e.ExportPrice = &v
		}
		ds.Economics[e.CropID] = e
	}

	return rows.Err()
}

func (c *Client) loadZones(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT id, name, department, region FROM zones`)
	if err != nil {
		return fmt.Errorf("failed to load zones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var z models.Zone
		var region sql.NullString

		err := rows.Scan(&z.ID, &z.Name, &z.Department, &region)
		if err != nil {
			return fmt.Errorf("failed to scan zone row: %w", err)
		}

		z.Region = region.String
		ds.Zones = append(ds.Zones, z)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	links, err := c.db.Query(`SELECT zone_id, crop_id FROM crop_zone`)
	if err != nil {
		return fmt.Errorf("failed to load crop-zone links: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var zoneID, cropID int64
		if err := links.Scan(&zoneID, &cropID); err != nil {
			return fmt.Errorf("failed to scan crop-zone row: %w", err)
		}
		ds.ZoneCrops[zoneID] = append(ds.ZoneCrops[zoneID], cropID)
	}

	return links.Err()
}

func (c *Client) loadPests(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT id, crop_id, name, kind, severity, control FROM pests`)
	if err != nil {
		return fmt.Errorf("failed to load pests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Pest
		var kind, severity, control sql.NullString

		err := rows.Scan(&p.ID, &p.CropID, &p.Name, &kind, &severity, &control)
		if err != nil {
			return fmt.Errorf("failed to scan pest row: %w", err)
		}

		p.Kind = kind.String
		p.Severity = severity.String
		p.Control = control.String
		ds.Pests[p.CropID] = append(ds.Pests[p.CropID], p)
	}

	return rows.Err()
}

func (c *Client) loadInputs(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT id, crop_id, name, category, unit, avg_price, quantity_per_ha, application_stage, frequency FROM inputs`)
	if err != nil {
		return fmt.Errorf("failed to load inputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var in models.CropInput
		var category, unit, stage, freq sql.NullString

		err := rows.Scan(&in.ID, &in.CropID, &in.Name, &category, &unit, &in.AvgPrice,
			&in.QuantityPerHa, &stage, &freq)
		if err != nil {
			return fmt.Errorf("failed to scan input row: %w", err)
		}

		in.Category = category.String
		in.Unit = unit.String
		in.ApplicationStage = stage.String
		in.Frequency = freq.String
		ds.Inputs[in.CropID] = append(ds.Inputs[in.CropID], in)
	}

	return rows.Err()
}

func (c *Client) loadTechniques(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT id, crop_id, name, category, description, benefits, importance, application_stage FROM techniques`)
	if err != nil {
		return fmt.Errorf("failed to load techniques: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Technique
		var category, description, benefits, importance, stage sql.NullString

		err := rows.Scan(&t.ID, &t.CropID, &t.Name, &category, &description, &benefits, &importance, &stage)
		if err != nil {
			return fmt.Errorf("failed to scan technique row: %w", err)
		}

		t.Category = category.String
		t.Description = description.String
		t.Benefits = benefits.String
		t.Importance = importance.String
		t.ApplicationStage = stage.String
		ds.Techniques[t.CropID] = append(ds.Techniques[t.CropID], t)
	}

	return rows.Err()
}

func (c *Client) loadCertifications(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT id, crop_id, name, issuer, target_market, price_premium FROM certifications`)
	if err != nil {
		return fmt.Errorf("failed to load certifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cert models.Certification
		var issuer, market sql.NullString

		err := rows.Scan(&cert.ID, &cert.CropID, &cert.Name, &issuer, &market, &cert.PricePremium)
		if err != nil {
			return fmt.Errorf("failed to scan certification row: %w", err)
		}

		cert.Issuer = issuer.String
		cert.TargetMarket = market.String
		ds.Certifications[cert.CropID] = append(ds.Certifications[cert.CropID], cert)
	}

	return rows.Err()
}

func (c *Client) loadSuppliers(ds *models.Dataset) error {
	rows, err := c.db.Query(`SELECT id, name, kind, contact, location, website, phone FROM suppliers`)
	if err != nil {
		return fmt.Errorf("failed to load suppliers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Supplier
		var kind, contact, location, website, phone sql.NullString

		err := rows.Scan(&s.ID, &s.Name, &kind, &contact, &location, &website, &phone)
		if err != nil {
			return fmt.Errorf("failed to scan supplier row: %w", err)
		}

		s.Kind = kind.String
		s.Contact = contact.String
		s.Location = location.String
		s.Website = website.String
		s.Phone = phone.String
		ds.Suppliers[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return err
	}

	offers, err := c.db.Query(`SELECT supplier_id, input_id, price, availability FROM supplier_input`)
	if err != nil {
		return fmt.Errorf("failed to load supplier offers: %w", err)
	}
	defer offers.Close()

	for offers.Next() {
		var si models.SupplierInput
		var availability sql.NullString

		err := offers.Scan(&si.SupplierID, &si.InputID, &si.Price, &availability)
		if err != nil {
			return fmt.Errorf("failed to scan supplier offer row: %w", err)
		}

		si.Availability = availability.String
		ds.SupplierInputs[si.InputID] = append(ds.SupplierInputs[si.InputID], si)
	}

	return offers.Err()
}
