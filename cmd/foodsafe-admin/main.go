// Command foodsafe-admin bundles the operational tasks that run next to the
// API server: applying schema migrations, seeding demo data, and dropping
// the reference-data cache after a reseed.
//
// Exit codes: 0 = success, 1 = error.
package main

func main() {
	Execute()
}
