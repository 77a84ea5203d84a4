package mocks

//go:generate mockery --name RawEventStore --srcpkg github.com/tripline/eventgate/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name ValidatedStore --srcpkg github.com/tripline/eventgate/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Publisher --srcpkg github.com/tripline/eventgate/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name EventReader --srcpkg github.com/tripline/eventgate/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
