package resample

// Input delay in samples, indexed by rateID of the input and output rate.
// in \ out  8  12  16  24  48
var delayMatrixDec = [3][5]int8{
	/*  8 */ {4, 0, 2, 0, 0},
	/* 12 */ {0, 9, 4, 7, 4},
	/* 16 */ {0, 3, 12, 7, 7},
}

// in \ out  8  12  16
var delayMatrixEnc = [5][3]int8{
	/*  8 */ {6, 0, 3},
	/* 12 */ {0, 7, 3},
	/* 16 */ {0, 1, 10},
	/* 24 */ {0, 2, 6},
	/* 48 */ {18, 10, 12},
}

// Allpass coefficients of the high-quality 2x upsampler, even and odd phase.
var (
	up2HQ0 = [3]int16{1746, 14986, 39083 - 65536}
	up2HQ1 = [3]int16{6854, 25769, 55542 - 65536}
)

// fracFIR12 holds the interpolation filters for fractions 1/24, 3/24, ..., 23/24.
// Only half of each symmetric 8-tap filter is stored.
var fracFIR12 = [12][4]int16{
	{189, -600, 617, 30567},
	{117, -159, -1070, 29704},
	{52, 221, -2392, 28276},
	{-4, 529, -3350, 26341},
	{-48, 758, -3956, 23973},
	{-80, 905, -4235, 21254},
	{-99, 972, -4222, 18278},
	{-107, 967, -3957, 15143},
	{-103, 896, -3487, 11950},
	{-91, 773, -2865, 8798},
	{-71, 611, -2143, 5784},
	{-46, 425, -1375, 2996},
}

// Downsampling filters: two AR2 coefficients in Q14 followed by the
// symmetric FIR half, one block per interpolation phase.
var (
	coefs3to4 = []int16{
		-20694, -13867,
		-49, 64, 17, -157, 353, -496, 163, 11047, 22205,
		-39, 6, 91, -170, 186, 23, -896, 6336, 19928,
		-19, -36, 102, -89, -24, 328, -951, 2568, 15909,
	}
	coefs2to3 = []int16{
		-14457, -14019,
		64, 128, -122, 36, 310, -768, 584, 9267, 17733,
		12, 128, 18, -142, 288, -117, -865, 4123, 14459,
	}
	coefs1to2 = []int16{
		616, -14323,
		-10, 39, 58, -46, -84, 120, 184, -315, -541, 1284, 5380, 9024,
	}
	coefs1to3 = []int16{
		16102, -15162,
		-13, 0, 20, 26, 5, -31, -43, -4, 65, 90, 7, -157, -248, -44, 593, 1583, 2612, 3271,
	}
	coefs1to4 = []int16{
		22500, -15099,
		3, -14, -20, -15, 2, 25, 37, 25, -16, -71, -107, -79, 50, 292, 623, 982, 1288, 1464,
	}
	coefs1to6 = []int16{
		27540, -15257,
		17, 12, 8, 1, -10, -22, -30, -32, -22, 3, 44, 100, 168, 243, 317, 381, 429, 455,
	}
)
