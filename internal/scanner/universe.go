package scanner

// DefaultUniverse is the built-in large-cap symbol list scanned when no
// universe is configured.
var DefaultUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK.B", "UNH", "JNJ",
	"XOM", "V", "JPM", "PG", "MA", "HD", "CVX", "MRK", "ABBV", "LLY",
	"PEP", "KO", "COST", "AVGO", "TMO", "MCD", "WMT", "ACN", "CSCO", "ABT",
	"DHR", "VZ", "ADBE", "CRM", "NEE", "CMCSA", "TXN", "PM", "NKE", "INTC",
	"BMY", "RTX", "QCOM", "UPS", "T", "HON", "ORCL", "LOW", "MS", "CAT",
	"GS", "DE", "AMD", "IBM", "SPGI", "INTU", "ISRG", "BA", "GE", "AMAT",
	"MDT", "LMT", "PLD", "BKNG", "SYK", "ADP", "MDLZ", "AXP", "GILD", "CVS",
	"SCHW", "BLK", "TJX", "ADI", "ETN", "REGN", "CI", "MO", "CB", "SBUX",
	"PYPL", "DUK", "SO", "CL", "MMC", "ZTS", "AON", "EOG", "NOC", "ITW",
	"PNC", "USB", "NFLX", "D", "HUM", "WM", "FISV", "NSC", "APD", "CCI",
	"SHW", "EMR", "ORLY", "FCX", "FDX", "MU", "PSA", "SLB", "KMB", "GD",
	"CME", "GM", "AEP", "TGT", "F", "KLAC", "SRE", "OXY", "PSX", "PH",
	"MRNA", "AZO", "HCA", "MPC", "LRCX", "WBA", "NEM", "MCHP", "CTSH", "EXC",
	"SNPS", "CDNS", "MAR", "ROP", "DXCM", "KMI", "MCO", "MSCI", "CTAS", "FTNT",
	"VLO", "COF", "HSY", "JCI", "TRV", "TEL", "PXD", "IQV", "EL", "AFL",
	"A", "CMG", "AIG", "STZ", "CARR", "APH", "WELL", "DVN", "HAL", "WMB",
	"GIS", "PAYX", "IDXX", "HES", "RSG", "PRU", "DG", "KDP", "PPG", "FAST",
	"YUM", "O", "MTD", "RMD", "BKR", "OKE", "KEYS", "DHI", "LEN", "DOW",
	"ALL", "KHC", "CTVA", "DD", "BAX", "CPRT", "OTIS", "AMP", "ALB", "EQR",
	"BIIB", "SYY", "VRTX", "APTV", "MLM", "AME", "ZBRA", "CDW", "CBRE", "MTB",
	"LYB", "GLW", "GPN", "EBAY", "TSCO", "IP", "STT", "URI", "AJG", "CE",
	"EIX", "ES", "FTV", "ETR", "EXPD", "HBAN", "WDC", "FE", "BF.B", "LUV",
	"EW", "RF", "AKAM", "TROW", "MKC", "NTRS", "IFF", "XYL", "VICI", "IT",
	"MOH", "DTE", "CAH", "CHD", "PFG", "NTAP", "FITB", "NUE", "ROL", "STE",
	"BBY", "WRK", "HRL", "PEAK", "CF", "VMC", "LNT", "K", "J", "TER",
	"SBAC", "CINF", "NVR", "DRI", "HPQ", "WAB", "WAT", "PPL", "CAG", "NI",
	"EMN", "POOL", "ALGN", "MAS", "JBHT", "IRM", "AVB", "BRO", "KEY", "SNA",
	"ULTA", "TYL", "QRVO", "NDAQ", "HII", "TXT", "AES", "WYNN", "FMC", "FFIV",
	"CRL", "BWA", "HST", "ATO", "PKG", "CPB", "REG", "AIZ", "L", "WHR",
	"HAS", "BIO", "SEE", "LEG", "NRG", "TPR", "FLT", "NWS", "NWSA", "RL",
}
