package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
)

type roleRepo struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepo{pool: pool}
}

// permsToStrings converts a permission list for a text[] column.
func permsToStrings(perms []permissions.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func permsFromStrings(raw []string) []permissions.Permission {
	out := make([]permissions.Permission, len(raw))
	for i, s := range raw {
		out[i] = permissions.Permission(s)
	}
	return out
}

func scanRole(row pgx.Row) (*models.Role, error) {
	role := &models.Role{}
	var rawPerms []string
	err := row.Scan(&role.ID, &role.ChannelID, &role.Name, &role.Description, &rawPerms, &role.TemplateType, &role.IsDefault)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	role.Permissions = permsFromStrings(rawPerms)
	return role, nil
}

func (r *roleRepo) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	return scanRole(r.pool.QueryRow(ctx,
		`SELECT id, channel_id, name, description, permissions, template_type, is_default
		 FROM roles WHERE id = $1`, id,
	))
}

func (r *roleRepo) ListActive(ctx context.Context, channelID int64) ([]models.ActiveRole, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cr.id, r.id, r.channel_id, r.name, r.description, r.permissions, r.template_type, r.is_default
		 FROM channel_roles cr
		 INNER JOIN roles r ON r.id = cr.role_id
		 WHERE cr.channel_id = $1
		 ORDER BY r.is_default DESC, r.id`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var active []models.ActiveRole
	for rows.Next() {
		var ar models.ActiveRole
		var rawPerms []string
		if err := rows.Scan(&ar.ChannelRoleID, &ar.Role.ID, &ar.ChannelID, &ar.Name, &ar.Description, &rawPerms, &ar.TemplateType, &ar.IsDefault); err != nil {
			return nil, err
		}
		ar.Permissions = permsFromStrings(rawPerms)
		active = append(active, ar)
	}
	return active, rows.Err()
}

func (r *roleRepo) GetActive(ctx context.Context, channelID, roleID int64) (*models.ActiveRole, error) {
	ar := &models.ActiveRole{}
	var rawPerms []string
	err := r.pool.QueryRow(ctx,
		`SELECT cr.id, r.id, r.channel_id, r.name, r.description, r.permissions, r.template_type, r.is_default
		 FROM channel_roles cr
		 INNER JOIN roles r ON r.id = cr.role_id
		 WHERE cr.channel_id = $1 AND cr.role_id = $2`, channelID, roleID,
	).Scan(&ar.ChannelRoleID, &ar.Role.ID, &ar.ChannelID, &ar.Name, &ar.Description, &rawPerms, &ar.TemplateType, &ar.IsDefault)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ar.Permissions = permsFromStrings(rawPerms)
	return ar, nil
}

func (r *roleRepo) CreateCustom(ctx context.Context, role *models.Role, channelRoleID int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// The role row must exist before the activation insert so its foreign
	// key resolves; channel_roles.role_id is checked per statement.
	_, err = tx.Exec(ctx,
		`INSERT INTO roles (id, channel_id, name, description, permissions, template_type, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.ChannelID, role.Name, role.Description, permsToStrings(role.Permissions), role.TemplateType, role.IsDefault,
	)
	if err != nil {
		return false, err
	}

	// The activation insert is conditional on the channel's current role
	// count, so two concurrent creations cannot jointly exceed max_roles.
	tag, err := tx.Exec(ctx,
		`INSERT INTO channel_roles (id, channel_id, role_id)
		 SELECT $1, c.id, $2
		 FROM channels c
		 WHERE c.id = $3
		   AND (SELECT COUNT(*) FROM channel_roles WHERE channel_id = c.id) < c.max_roles`,
		channelRoleID, role.ID, role.ChannelID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		// Rolling back also discards the role row inserted above.
		return false, nil
	}

	return true, tx.Commit(ctx)
}

func (r *roleRepo) Update(ctx context.Context, role *models.Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE roles SET name = $2, description = $3, permissions = $4
		 WHERE id = $1`,
		role.ID, role.Name, role.Description, permsToStrings(role.Permissions),
	)
	return err
}

func (r *roleRepo) DeleteCustom(ctx context.Context, channelID, roleID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM member_roles
		 WHERE channel_role_id IN (
		   SELECT id FROM channel_roles WHERE channel_id = $1 AND role_id = $2
		 )`, channelID, roleID,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM channel_roles WHERE channel_id = $1 AND role_id = $2`,
		channelID, roleID,
	)
	if err != nil {
		return err
	}

	// Shared template rows are never deleted, only their bindings would be,
	// and that path is rejected at the service layer.
	_, err = tx.Exec(ctx,
		`DELETE FROM roles WHERE id = $1 AND template_type = 'CUSTOM'`, roleID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *roleRepo) GetByMember(ctx context.Context, channelID, userID int64) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.channel_id, r.name, r.description, r.permissions, r.template_type, r.is_default
		 FROM roles r
		 INNER JOIN channel_roles cr ON cr.role_id = r.id
		 INNER JOIN member_roles mr ON mr.channel_role_id = cr.id
		 INNER JOIN members m ON m.id = mr.member_id
		 WHERE cr.channel_id = $1 AND m.user_id = $2
		 ORDER BY r.id`, channelID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		var rawPerms []string
		if err := rows.Scan(&role.ID, &role.ChannelID, &role.Name, &role.Description, &rawPerms, &role.TemplateType, &role.IsDefault); err != nil {
			return nil, err
		}
		role.Permissions = permsFromStrings(rawPerms)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepo) SeedTemplates(ctx context.Context, templates []models.Role) error {
	for i := range templates {
		role := &templates[i]
		_, err := r.pool.Exec(ctx,
			`INSERT INTO roles (id, channel_id, name, description, permissions, template_type, is_default)
			 VALUES ($1, NULL, $2, $3, $4, $5, TRUE)
			 ON CONFLICT (id) DO NOTHING`,
			role.ID, role.Name, role.Description, permsToStrings(role.Permissions), role.TemplateType,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
