// Package domain transforms wide-format AERONET aerosol measurements into a
// star-schema warehouse snapshot.
//
// # Data Source
//
// Input rows come from the AERONET Version 3 daily-average export
// (All_Sites_Times_Daily_Averages_AOD20), one row per site and day. The file
// is wide: every wavelength the network measures gets its own column, named
// AOD_<wavelength>nm (AOD_440nm, AOD_870nm, ...). The remaining columns carry
// site identity and context:
//
//	AERONET_Site               site name
//	Date(dd:mm:yyyy)           measurement day, colon-separated
//	Day_of_Year                ordinal day within the year
//	Site_Latitude(Degrees)     WGS-84 latitude
//	Site_Longitude(Degrees)    WGS-84 longitude
//	Site_Elevation(m)          elevation in meters
//	Precipitable_Water(cm)     column water vapor
//	440-870_Angstrom_Exponent  spectral slope of AOD between 440 and 870 nm
//
// # Missing Values
//
// AERONET encodes "no measurement" as -999 (sometimes -999.0, sometimes
// quoted). [ReplaceSentinels] rewrites every such cell to empty before any
// parsing. Within the package, missing is represented by the type's natural
// absent value: NaN for numerics, "" for strings, the zero time.Time for
// dates. Parse failures degrade to the same absent values and are never
// errors; the loader maps all of them to SQL NULL.
//
// # Classification Rules
//
// Particle type is derived from the Ångström exponent: values ≥ 1.5 indicate
// fine-mode particles (smoke, pollution), values ≤ 1.0 coarse-mode (dust, sea
// salt), the open interval between them "mixed".
//
// Wavelengths are annotated with a spectral band (UV below 400 nm, VIS up to
// 700 nm, NIR above) and an aerosol sensitivity label (wavelengths up to
// 500 nm respond most to fine particles, 800 nm and above to coarse ones).
//
// # Star Schema
//
// [Transform] melts the wide table into one row per (site, date, wavelength)
// observation, then derives three dimensions and the fact table:
//
//	dim_wavelength  distinct wavelengths + band/sensitivity, keyed by ascending wavelength
//	dim_date        distinct dates + year/month/day/day-of-year, keyed by ascending date
//	dim_site        distinct sites + coordinates, country and continent, keyed in encounter order
//	fact_aod        one row per observation, referencing all three dimensions
//
// Every surrogate key space is a dense 1..N sequence. Fact rows that cannot
// resolve a dimension key abort the transform, with one exception: rows for
// sites removed by the coordinate range filter are dropped and counted.
//
// Country and continent come from a point-in-polygon lookup against the
// Natural Earth admin-0 countries dataset via the [Resolver] interface. The
// lookup is best-effort; when it is unavailable both fields stay empty.
package domain
