package clvm

// Per-operation costs. Values follow the reference chain costs so that
// programs evaluated here stay within the same budgets.
const (
	quoteCost  = 20
	applyCost  = 90
	ifCost     = 33
	consCost   = 50
	firstCost  = 30
	restCost   = 30
	listpCost  = 19
	mallocCost = 10 // per byte of a newly allocated atom

	pathLookupBase     = 40
	pathLookupPerLeg   = 4
	pathLookupPerZeroB = 4

	eqBase    = 117
	eqPerByte = 1

	grsBase    = 117
	grsPerByte = 1

	grBase    = 498
	grPerByte = 2

	sha256Base    = 87
	sha256PerArg  = 134
	sha256PerByte = 2

	arithBase    = 99
	arithPerArg  = 320
	arithPerByte = 3

	mulBase         = 92
	mulPerOp        = 885
	mulLinearByte   = 6
	mulSquareDivide = 128

	concatBase    = 142
	concatPerArg  = 135
	concatPerByte = 3

	strlenBase    = 173
	strlenPerByte = 1

	substrCost = 1

	boolBase   = 200
	boolPerArg = 300

	pointAddBase   = 101094
	pointAddPerArg = 1343980

	pubkeyBase    = 1325730
	pubkeyPerByte = 38

	// DefaultMaxCost is the budget used when callers pass zero.
	DefaultMaxCost = 11_000_000_000
)
