package mysql

// Search filters use "(? = '' OR LOWER(col) LIKE ?)": the first arg is the
// raw search text, the second the escaped %pattern% (see likePattern).

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels
  (id, name, description, star_rating, starting_price, active, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const selectHotelSQL = `
SELECT id, name, description, star_rating, starting_price, active, created_at, updated_at
FROM hotels
WHERE id = ?
`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, description = ?, star_rating = ?, starting_price = ?, active = ?, updated_at = ?
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const listHotelsSQL = `
SELECT id, name, description, star_rating, starting_price, active, created_at, updated_at
FROM hotels
WHERE (? = '' OR LOWER(name) LIKE ?)
ORDER BY created_at, id
LIMIT ? OFFSET ?
`

const countHotelsSQL = `
SELECT COUNT(*) FROM hotels
WHERE (? = '' OR LOWER(name) LIKE ?)
`

// -----------------------------------------------------------------------------
// BRANCHES
// -----------------------------------------------------------------------------

const insertBranchSQL = `
INSERT INTO branches (id, hotel_id, name, type, room_count)
VALUES (?, ?, ?, ?, ?)
`

const selectBranchSQL = `
SELECT id, hotel_id, name, type, room_count FROM branches WHERE id = ?
`

const updateBranchSQL = `
UPDATE branches SET hotel_id = ?, name = ?, type = ?, room_count = ? WHERE id = ?
`

const deleteBranchSQL = `DELETE FROM branches WHERE id = ?`

const branchNameExistsSQL = `
SELECT EXISTS(SELECT 1 FROM branches WHERE hotel_id = ? AND name = ?)
`

const listBranchesSQL = `
SELECT id, hotel_id, name, type, room_count
FROM branches
WHERE (? = '' OR hotel_id = ?)
  AND (? = '' OR LOWER(name) LIKE ?)
ORDER BY name, id
LIMIT ? OFFSET ?
`

const countBranchesSQL = `
SELECT COUNT(*) FROM branches
WHERE (? = '' OR hotel_id = ?)
  AND (? = '' OR LOWER(name) LIKE ?)
`

const branchesOfHotelSQL = `
SELECT id, hotel_id, name, type, room_count
FROM branches
WHERE hotel_id = ?
ORDER BY name, id
`

// -----------------------------------------------------------------------------
// ADDRESSES
// -----------------------------------------------------------------------------

const insertAddressSQL = `
INSERT INTO addresses (id, branch_id, address_line, city, country, latitude, longitude)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const addressColumns = `id, branch_id, address_line, city, country, latitude, longitude`

const selectAddressSQL = `SELECT ` + addressColumns + ` FROM addresses WHERE id = ?`

const selectAddressByBranchSQL = `SELECT ` + addressColumns + ` FROM addresses WHERE branch_id = ?`

const updateAddressSQL = `
UPDATE addresses
SET branch_id = ?, address_line = ?, city = ?, country = ?, latitude = ?, longitude = ?
WHERE id = ?
`

const deleteAddressSQL = `DELETE FROM addresses WHERE id = ?`

const addressExistsForBranchSQL = `SELECT EXISTS(SELECT 1 FROM addresses WHERE branch_id = ?)`

// Address search matches city, country or the address line.
const listAddressesSQL = `
SELECT ` + addressColumns + `
FROM addresses
WHERE (? = '' OR LOWER(city) LIKE ? OR LOWER(country) LIKE ? OR LOWER(address_line) LIKE ?)
ORDER BY country, city, id
LIMIT ? OFFSET ?
`

const countAddressesSQL = `
SELECT COUNT(*) FROM addresses
WHERE (? = '' OR LOWER(city) LIKE ? OR LOWER(country) LIKE ? OR LOWER(address_line) LIKE ?)
`

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

const insertRoomSQL = `
INSERT INTO rooms (id, branch_id, room_number, type, bed_count, price, available)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const roomColumns = `id, branch_id, room_number, type, bed_count, price, available`

const selectRoomSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`

const updateRoomSQL = `
UPDATE rooms
SET branch_id = ?, room_number = ?, type = ?, bed_count = ?, price = ?, available = ?
WHERE id = ?
`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const roomNumberExistsSQL = `
SELECT EXISTS(SELECT 1 FROM rooms WHERE branch_id = ? AND room_number = ?)
`

const listRoomsSQL = `
SELECT ` + roomColumns + `
FROM rooms
WHERE (? = '' OR branch_id = ?)
  AND (? = '' OR LOWER(room_number) LIKE ? OR LOWER(type) LIKE ?)
ORDER BY room_number, id
LIMIT ? OFFSET ?
`

const countRoomsSQL = `
SELECT COUNT(*) FROM rooms
WHERE (? = '' OR branch_id = ?)
  AND (? = '' OR LOWER(room_number) LIKE ? OR LOWER(type) LIKE ?)
`

const countRoomsOfBranchSQL = `SELECT COUNT(*) FROM rooms WHERE branch_id = ?`

// -----------------------------------------------------------------------------
// FACILITIES
// -----------------------------------------------------------------------------

const insertFacilitySQL = `INSERT INTO facilities (room_id, name) VALUES (?, ?)`

const selectFacilitySQL = `SELECT id, room_id, name FROM facilities WHERE id = ?`

const updateFacilitySQL = `UPDATE facilities SET room_id = ?, name = ? WHERE id = ?`

const deleteFacilitySQL = `DELETE FROM facilities WHERE id = ?`

const facilityNameExistsSQL = `
SELECT EXISTS(SELECT 1 FROM facilities WHERE room_id = ? AND name = ?)
`

const listFacilitiesSQL = `
SELECT id, room_id, name
FROM facilities
WHERE (? = '' OR room_id = ?)
  AND (? = '' OR LOWER(name) LIKE ?)
ORDER BY id
LIMIT ? OFFSET ?
`

const countFacilitiesSQL = `
SELECT COUNT(*) FROM facilities
WHERE (? = '' OR room_id = ?)
  AND (? = '' OR LOWER(name) LIKE ?)
`

const facilitiesOfRoomSQL = `SELECT id, room_id, name FROM facilities WHERE room_id = ? ORDER BY id`

// -----------------------------------------------------------------------------
// ROOM IMAGES
// -----------------------------------------------------------------------------

const insertRoomImageSQL = `
INSERT INTO room_images (room_id, file_name, resource_url, directory, hash)
VALUES (?, ?, ?, ?, ?)
`

const roomImageColumns = `id, room_id, file_name, resource_url, directory, hash`

const selectRoomImageSQL = `SELECT ` + roomImageColumns + ` FROM room_images WHERE id = ?`

const lockRoomImageSQL = selectRoomImageSQL + ` FOR UPDATE`

const updateRoomImageSQL = `
UPDATE room_images
SET room_id = ?, file_name = ?, resource_url = ?, directory = ?, hash = ?
WHERE id = ?
`

const deleteRoomImageSQL = `DELETE FROM room_images WHERE id = ?`

const listRoomImagesSQL = `
SELECT ` + roomImageColumns + `
FROM room_images
WHERE (? = '' OR room_id = ?)
ORDER BY id
LIMIT ? OFFSET ?
`

const countRoomImagesSQL = `SELECT COUNT(*) FROM room_images WHERE (? = '' OR room_id = ?)`

const imagesOfRoomSQL = `SELECT ` + roomImageColumns + ` FROM room_images WHERE room_id = ? ORDER BY id`

const imageKeysSQL = `SELECT directory, file_name FROM room_images`
