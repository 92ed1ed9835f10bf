package action

// Concrete class ids, one per leaf action type across the iterator,
// operator, predicate, function and collection subpackages. Kept in one
// place so every factory registration (program.Register*Factory) and every
// Descriptor.ClassID literal refers to the same numbering (spec.md §4.2).
const (
	ClassArray ClassID = iota + 1
	ClassLoop
	ClassFileScan
	ClassFetch
	ClassGetLocator
	ClassNestedLoop
	ClassSort
	ClassGroupBy
	ClassLimit

	ClassClear
	ClassSetNull
	ClassFileFetchNormal
	ClassFileFetchGetLocator
	ClassGeneratorRowID
	ClassGeneratorIdentity
	ClassGeneratorIdentityByInput
	ClassGeneratorRecoveryRowID
	ClassGeneratorRecoveryIdentity

	ClassComparisonDyadic
	ClassComparisonMonadic
	ClassComparisonRow
	ClassDistinct
	ClassBetween
	ClassNotBetween
	ClassIn
	ClassNotIn
	ClassArrayCheckAny
	ClassArrayCheckAll
	ClassFileCheckByBitSet
	ClassFileCheckByCollection

	ClassCharJoin
	ClassCalcVariance

	ClassArrayScanSource
	ClassSortBuffer
	ClassHashSet
	ClassLimitCounter
)
