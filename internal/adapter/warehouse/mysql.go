// Package warehouse persists star-schema snapshots into a MySQL database:
// idempotent DDL, truncate-first loads, and chunked fact inserts.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/atmosdata/aeronet-dw-etl/internal/domain"
)

// erBadDB is MySQL's ER_BAD_DB_ERROR: the configured schema does not exist.
const erBadDB = 1049

// maxRowsPerInsert caps multi-row INSERT statements. MySQL allows at most
// 65535 placeholders per statement; 1000 fact rows use 8000.
const maxRowsPerInsert = 1000

// Loader writes the four warehouse tables. It implements pipeline.Loader.
type Loader struct {
	db        *sql.DB
	schema    string
	batchSize int
	logger    *slog.Logger
}

// DSN builds a go-sql-driver DSN from connection parts.
func DSN(host string, port int, user, password, dbName string) string {
	c := mysql.NewConfig()
	c.User = user
	c.Passwd = password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", host, port)
	c.DBName = dbName
	c.ParseTime = true
	return c.FormatDSN()
}

// New creates a Loader for the given DSN. batchSize is the number of fact
// rows committed per transaction.
func New(dsn string, batchSize int, logger *slog.Logger) (*Loader, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse warehouse dsn: %w", err)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open warehouse connection: %w", err)
	}
	return &Loader{db: db, schema: cfg.DBName, batchSize: batchSize, logger: logger}, nil
}

func (l *Loader) Close() error {
	return l.db.Close()
}

// Load persists one snapshot: verify connectivity, create the tables when
// absent, truncate the previous snapshot, then insert dimensions and facts.
// Dimension inserts run as single statements; facts are chunked, one
// transaction per batch.
func (l *Loader) Load(ctx context.Context, star domain.Star) error {
	if err := l.db.PingContext(ctx); err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == erBadDB {
			return fmt.Errorf("schema %q does not exist, create it before loading: %w", l.schema, err)
		}
		return fmt.Errorf("connect warehouse: %w", err)
	}

	if err := l.createTables(ctx); err != nil {
		return err
	}
	l.logger.Info("warehouse schema ready", "schema", l.schema)

	if err := l.truncate(ctx); err != nil {
		return err
	}

	if err := l.insertWavelengths(ctx, star.Wavelengths); err != nil {
		return err
	}
	if err := l.insertDates(ctx, star.Dates); err != nil {
		return err
	}
	if err := l.insertSites(ctx, star.Sites); err != nil {
		return err
	}
	l.logger.Info("dimensions loaded",
		"wavelengths", len(star.Wavelengths),
		"dates", len(star.Dates),
		"sites", len(star.Sites),
	)

	if err := l.insertFacts(ctx, star.Facts); err != nil {
		return err
	}
	l.logger.Info("facts loaded", "rows", len(star.Facts), "batch_size", l.batchSize)
	return nil
}

func (l *Loader) createTables(ctx context.Context) error {
	for _, ddl := range tableDDL {
		if _, err := l.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create warehouse tables: %w", err)
		}
	}
	return nil
}

// truncate clears the previous snapshot. Foreign-key checks are toggled off
// for the duration; the session variable requires all statements to run on
// one pinned connection.
func (l *Loader) truncate(ctx context.Context) error {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=0"); err != nil {
		return fmt.Errorf("disable fk checks: %w", err)
	}
	for _, tbl := range []string{"fact_aod", "dim_wavelength", "dim_date", "dim_site"} {
		if _, err := conn.ExecContext(ctx, "TRUNCATE TABLE "+tbl); err != nil {
			return fmt.Errorf("truncate %s: %w", tbl, err)
		}
	}
	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=1"); err != nil {
		return fmt.Errorf("enable fk checks: %w", err)
	}
	return nil
}

func (l *Loader) insertWavelengths(ctx context.Context, rows []domain.WavelengthRow) error {
	cols := []string{"id_wavelength", "Wavelength_nm", "Spectral_Band", "Sensitive_Aerosol"}
	args := make([]any, 0, len(rows)*len(cols))
	for _, r := range rows {
		args = append(args, r.ID, r.WavelengthNm, nullString(r.SpectralBand), nullString(r.Sensitivity))
	}
	return l.bulkInsert(ctx, "dim_wavelength", cols, args)
}

func (l *Loader) insertDates(ctx context.Context, rows []domain.DateRow) error {
	cols := []string{"id_date", "`Date`", "`Year`", "`Month`", "`Day`", "Day_of_Year"}
	args := make([]any, 0, len(rows)*len(cols))
	for _, r := range rows {
		args = append(args, r.ID, r.Date, r.Year, r.Month, r.Day, r.DayOfYear)
	}
	return l.bulkInsert(ctx, "dim_date", cols, args)
}

func (l *Loader) insertSites(ctx context.Context, rows []domain.SiteRow) error {
	cols := []string{"id_site", "AERONET_Site", "Latitude", "Longitude", "Elevation", "Country", "Continent"}
	args := make([]any, 0, len(rows)*len(cols))
	for _, r := range rows {
		args = append(args,
			r.ID, nullString(r.Site), nullFloat(r.Latitude), nullFloat(r.Longitude),
			nullFloat(r.Elevation), nullString(r.Country), nullString(r.Continent))
	}
	return l.bulkInsert(ctx, "dim_site", cols, args)
}

// insertFacts writes fact rows in batches of batchSize, one transaction per
// batch, so a huge load never holds a single giant transaction open.
func (l *Loader) insertFacts(ctx context.Context, rows []domain.FactRow) error {
	cols := []string{
		"Fact_ID", "id_date", "id_wavelength", "id_site",
		"Particle_type", "AOD_Value", "Precipitable_Water", "Angstrom_Exponent",
	}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		chunk := rows[start:end]

		tx, err := l.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin fact batch: %w", err)
		}
		args := make([]any, 0, len(chunk)*len(cols))
		for _, r := range chunk {
			args = append(args,
				r.ID, r.DateID, r.WavelengthID, r.SiteID,
				nullString(r.ParticleType), r.AODValue,
				nullFloat(r.PrecipWater), nullFloat(r.AngstromExp))
		}
		if err := bulkInsertTx(ctx, tx, "fact_aod", cols, args); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit fact batch: %w", err)
		}
	}
	return nil
}

// bulkInsert writes all rows for one table, splitting statements to respect
// the placeholder limit.
func (l *Loader) bulkInsert(ctx context.Context, table string, cols []string, args []any) error {
	nCols := len(cols)
	for start := 0; start < len(args); start += maxRowsPerInsert * nCols {
		end := min(start+maxRowsPerInsert*nCols, len(args))
		stmt := insertStmt(table, cols, (end-start)/nCols)
		if _, err := l.db.ExecContext(ctx, stmt, args[start:end]...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

func bulkInsertTx(ctx context.Context, tx *sql.Tx, table string, cols []string, args []any) error {
	nCols := len(cols)
	for start := 0; start < len(args); start += maxRowsPerInsert * nCols {
		end := min(start+maxRowsPerInsert*nCols, len(args))
		stmt := insertStmt(table, cols, (end-start)/nCols)
		if _, err := tx.ExecContext(ctx, stmt, args[start:end]...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

// insertStmt builds a multi-row INSERT with nRows placeholder tuples.
func insertStmt(table string, cols []string, nRows int) string {
	tuple := "(?" + strings.Repeat(", ?", len(cols)-1) + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES ")
	for i := 0; i < nRows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
	}
	return b.String()
}

// nullFloat maps the transform's missing marker (NaN, and defensively Inf)
// to SQL NULL.
func nullFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// nullString maps the transform's missing marker ("") to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// tableDDL creates the star schema. Foreign keys restrict deletes and
// cascade key updates, so a dimension row can never vanish from under a
// fact row.
var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS dim_wavelength (
		id_wavelength INT PRIMARY KEY,
		Wavelength_nm DOUBLE NOT NULL,
		Spectral_Band VARCHAR(10),
		Sensitive_Aerosol VARCHAR(20),
		UNIQUE KEY uq_wavelength (Wavelength_nm)
	) ENGINE=InnoDB`,

	"CREATE TABLE IF NOT EXISTS dim_date (\n" +
		"\tid_date INT PRIMARY KEY,\n" +
		"\t`Date` DATE NOT NULL,\n" +
		"\t`Year` SMALLINT NOT NULL,\n" +
		"\t`Month` TINYINT NOT NULL,\n" +
		"\t`Day` TINYINT NOT NULL,\n" +
		"\tDay_of_Year SMALLINT NOT NULL,\n" +
		"\tUNIQUE KEY uq_date (`Date`)\n" +
		") ENGINE=InnoDB",

	`CREATE TABLE IF NOT EXISTS dim_site (
		id_site INT PRIMARY KEY,
		AERONET_Site VARCHAR(150),
		Latitude DECIMAL(9,6),
		Longitude DECIMAL(9,6),
		Elevation DOUBLE,
		Country VARCHAR(120),
		Continent VARCHAR(60),
		KEY ix_site_name (AERONET_Site),
		KEY ix_site_latlon (Latitude, Longitude)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS fact_aod (
		Fact_ID BIGINT PRIMARY KEY,
		id_date INT NOT NULL,
		id_wavelength INT NOT NULL,
		id_site INT NOT NULL,
		Particle_type VARCHAR(10),
		AOD_Value DOUBLE NOT NULL,
		Precipitable_Water DOUBLE NULL,
		Angstrom_Exponent DOUBLE NULL,
		KEY ix_date (id_date),
		KEY ix_wavelength (id_wavelength),
		KEY ix_site (id_site),
		CONSTRAINT fk_fact_date FOREIGN KEY (id_date) REFERENCES dim_date(id_date)
			ON UPDATE CASCADE ON DELETE RESTRICT,
		CONSTRAINT fk_fact_wavelength FOREIGN KEY (id_wavelength) REFERENCES dim_wavelength(id_wavelength)
			ON UPDATE CASCADE ON DELETE RESTRICT,
		CONSTRAINT fk_fact_site FOREIGN KEY (id_site) REFERENCES dim_site(id_site)
			ON UPDATE CASCADE ON DELETE RESTRICT
	) ENGINE=InnoDB`,
}
