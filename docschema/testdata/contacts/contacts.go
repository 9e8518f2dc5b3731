package contacts

// Contact is exchanged with the CRM.
//
// @property string $name
// @property string $email
// @property string|int|null $age
// @property array|null $phone
// @property CustomType|null $personDetails
type Contact struct{}

// CustomType carries optional details.
//
// @property-read string $nickname
// @dto snake=false
type CustomType struct{}

// Plain has no annotations and is ignored.
type Plain struct{}
