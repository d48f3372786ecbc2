package services

// Services defined in this package:
// - AuthService: Authenticates back-office admins and issues tokens
// - ApplicationService: Public submission flow and admin review workflow
// - CommitteeService: Committee management and the public committee list
// - ExportService: Drives the spreadsheet/CSV export pipeline
// - DashboardService: Aggregate statistics for the admin landing page
