package silk

const (
	maxNbSubfr         = 4
	subFrameLengthMs   = 5
	ltpMemLengthMs     = 20
	maxFsKHz           = 16
	maxSubFrameLength  = subFrameLengthMs * maxFsKHz
	maxFrameLength     = maxSubFrameLength * maxNbSubfr
	maxLPCOrder        = 16
	minLPCOrder        = 10
	ltpOrder           = 5
	maxFramesPerPacket = 3

	shellCodecFrameLength     = 16
	log2ShellCodecFrameLength = 4
	nRateLevels               = 10
	silkMaxPulses             = 16

	maxLPCStabilizeIterations    = 16
	maxPredictionPowerGainInvQ30 = 107374

	nLevelsQGain        = 64
	maxDeltaGainQuant   = 36
	minDeltaGainQuant   = -4
	minQGainDb          = 2
	maxQGainDb          = 88
	quantLevelAdjustQ10 = 80

	typeNoVoiceActivity = 0
	typeUnvoiced        = 1
	typeVoiced          = 2

	codeIndependently             = 0
	codeIndependentlyNoLtpScaling = 1
	codeConditionally             = 2

	nlsfQuantMaxAmplitude = 4
	nlsfQuantLevelAdjQ10  = 102
	bweAfterLossQ16       = 63570

	stereoQuantTabSize  = 16
	stereoQuantSubSteps = 5
	stereoInterpLenMs   = 8

	pitchEstMinLagMs = 2
	pitchEstMaxLagMs = 18

	maxSilkPacketBytes = 1275
)

// Packet loss concealment.
const (
	plcBWECoefQ16          = 64881 // 0.99
	plcPitchGainMinQ14     = 11469 // 0.7
	plcPitchGainMaxQ14     = 15565 // 0.95
	plcMaxPitchLagMs       = 18
	plcRandBufSize         = 128
	plcRandBufMask         = plcRandBufSize - 1
	plcInvGainHighThresLog = 3
	plcInvGainLowThresLog  = 8
	plcPitchDriftFacQ16    = 655 // 0.01
	plcMinRandScaleQ14     = 3277
)

// Comfort noise generation.
const (
	cngBufMaskMax           = 255
	cngGainSmthQ16          = 4634
	cngNLSFSmthQ16          = 16348
	cngGainSmthThresholdQ16 = 46396
	cngInitSeed             = 3176576
)
