// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/internal/client"
	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/tui"
	"github.com/MKhiriev/go-vault-keeper/models"
)

type cliContext struct {
	cfg  config.ClientConfig
	logs *logger.Logger
}

// withClient dials the daemon, optionally establishes a session, runs
// fn and closes the connection.
func (c *cliContext) withClient(ctx context.Context, needSession bool, fn func(context.Context, client.VaultClient) error) error {
	vaultClient, err := client.NewSocketClient(c.cfg, c.logs)
	if err != nil {
		return err
	}
	defer vaultClient.Close()

	if needSession {
		if err = c.ensureSession(ctx, vaultClient); err != nil {
			return err
		}
	}
	return fn(ctx, vaultClient)
}

// ensureSession reuses the session persisted by a previous invocation
// when the daemon still accepts it, and creates a fresh one otherwise.
func (c *cliContext) ensureSession(ctx context.Context, vaultClient client.VaultClient) error {
	if sessionID := loadSessionID(); sessionID != "" {
		vaultClient.SetSession(sessionID)
		_, err := vaultClient.Status(ctx)
		if err == nil {
			return nil
		}
		if !isSessionError(err) {
			return err
		}
	}

	sessionID, err := vaultClient.CreateSession(ctx)
	if err != nil {
		return err
	}
	if err = saveSessionID(sessionID); err != nil {
		c.logs.Warn().Err(err).Msg("cannot persist session id")
	}
	return nil
}

func isSessionError(err error) bool {
	return errors.Is(err, client.ErrSessionNotFound) ||
		errors.Is(err, client.ErrSessionExpired) ||
		errors.Is(err, client.ErrSessionRequired)
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func (c *cliContext) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check daemon liveness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd.Context(), false, func(ctx context.Context, vc client.VaultClient) error {
				pong, err := vc.Ping(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("daemon version %s, up %d seconds\n", pong.ServerVersion, pong.UptimeSeconds)
				return nil
			})
		},
	}
}

func (c *cliContext) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an archive is unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				status, err := vc.Status(ctx)
				if err != nil {
					return err
				}
				return printJSON(status)
			})
		},
	}
}

func (c *cliContext) createArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-archive <path>",
		Short: "Create a new encrypted archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptNewPassword()
			if err != nil {
				return err
			}
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				if err := vc.CreateArchive(ctx, args[0], password); err != nil {
					return err
				}
				fmt.Printf("archive created at %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *cliContext) unlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <path>",
		Short: "Unlock an archive for this session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Master password: ")
			if err != nil {
				return err
			}
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				count, err := vc.Unlock(ctx, args[0], password)
				if err != nil {
					return err
				}
				fmt.Printf("archive unlocked, %d credentials loaded\n", count)
				return nil
			})
		},
	}
}

func (c *cliContext) lockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Save and lock the open archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				if err := vc.Lock(ctx); err != nil {
					return err
				}
				fmt.Println("archive locked")
				return nil
			})
		},
	}
}

func (c *cliContext) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist pending changes to the archive file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				if err := vc.Save(ctx); err != nil {
					return err
				}
				fmt.Println("archive saved")
				return nil
			})
		},
	}
}

func (c *cliContext) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show metadata about the open archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				info, err := vc.ArchiveInfo(ctx)
				if err != nil {
					return err
				}
				return printJSON(info)
			})
		},
	}
}

func (c *cliContext) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Probe a file without decrypting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				report, err := vc.ValidateRepository(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}
}

func (c *cliContext) listCommand() *cobra.Command {
	var includeSensitive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List credentials in the open archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				listed, err := vc.List(ctx, includeSensitive)
				if err != nil {
					return err
				}
				return printJSON(listed)
			})
		},
	}
	cmd.Flags().BoolVar(&includeSensitive, "sensitive", false, "show sensitive field values unmasked")
	return cmd
}

func (c *cliContext) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <credential-id>",
		Short: "Show one credential with sensitive values unmasked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				record, err := vc.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(record)
			})
		},
	}
}

func (c *cliContext) addCommand() *cobra.Command {
	var (
		title          string
		credentialType string
		templateName   string
		notes          string
		tags           []string
		fields         []string
		secrets        []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := newRecordForAdd(title, credentialType, templateName)
			if err != nil {
				return err
			}
			if len(tags) > 0 {
				record.Tags = tags
			}
			record.Notes = notes
			if err = applyFieldFlags(&record, fields, secrets); err != nil {
				return err
			}

			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				id, err := vc.Create(ctx, record)
				if err != nil {
					return err
				}
				fmt.Println(id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "credential title")
	cmd.Flags().StringVar(&credentialType, "type", "login", "credential type")
	cmd.Flags().StringVar(&templateName, "template", "", "catalog template to instantiate (see the templates command)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag, repeatable")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "plain field as name=value, repeatable")
	cmd.Flags().StringArrayVar(&secrets, "secret", nil, "sensitive field as name=value, repeatable")
	cmd.MarkFlagRequired("title")
	return cmd
}

// newRecordForAdd builds the skeleton record for the add command. A
// template name instantiates the catalog template, so the record starts
// with the template's typed fields and tags; otherwise the record is
// empty with the given type.
func newRecordForAdd(title, credentialType, templateName string) (models.CredentialRecord, error) {
	if templateName == "" {
		return models.NewCredentialRecord(title, credentialType), nil
	}

	template, err := models.TemplateByName(templateName)
	if err != nil {
		return models.CredentialRecord{}, err
	}
	return template.CreateCredential(title), nil
}

func (c *cliContext) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the fixed credential template catalog",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, template := range models.Templates() {
				fmt.Printf("%s\t%s\n", template.Name, template.Description)
				for _, field := range template.Fields {
					required := ""
					if field.Required {
						required = " (required)"
					}
					fmt.Printf("    %s\t%s%s\n", field.Name, field.Label, required)
				}
			}
			return nil
		},
	}
}

func (c *cliContext) updateCommand() *cobra.Command {
	var (
		title   string
		notes   string
		tags    []string
		fields  []string
		secrets []string
	)

	cmd := &cobra.Command{
		Use:   "update <credential-id>",
		Short: "Update an existing credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				record, err := vc.Get(ctx, args[0])
				if err != nil {
					return err
				}

				if cmd.Flags().Changed("title") {
					record.Title = title
				}
				if cmd.Flags().Changed("notes") {
					record.Notes = notes
				}
				if cmd.Flags().Changed("tag") {
					record.Tags = tags
				}
				if err = applyFieldFlags(&record, fields, secrets); err != nil {
					return err
				}

				if err = vc.Update(ctx, args[0], record); err != nil {
					return err
				}
				fmt.Println("credential updated")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new credential title")
	cmd.Flags().StringVar(&notes, "notes", "", "new free-form notes")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replacement tag set, repeatable")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "plain field as name=value, repeatable")
	cmd.Flags().StringArrayVar(&secrets, "secret", nil, "sensitive field as name=value, repeatable")
	return cmd
}

func (c *cliContext) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui <path>",
		Short: "Browse an archive interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				browser, err := tui.New(vc, c.logs)
				if err != nil {
					return err
				}
				return browser.Run(ctx, args[0])
			})
		},
	}
}

func (c *cliContext) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <credential-id>",
		Short: "Delete a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				if err := vc.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Println("credential deleted")
				return nil
			})
		},
	}
}

func (c *cliContext) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search credentials by title, type, tags or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withClient(cmd.Context(), true, func(ctx context.Context, vc client.VaultClient) error {
				found, err := vc.Search(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(found)
			})
		},
	}
}

// applyFieldFlags merges name=value flag pairs into the record. Plain
// pairs become text fields, secret pairs become password fields.
func applyFieldFlags(record *models.CredentialRecord, fields, secrets []string) error {
	for _, pair := range fields {
		name, value, err := splitFieldPair(pair)
		if err != nil {
			return err
		}
		record.SetField(name, models.TextField(value))
	}
	for _, pair := range secrets {
		name, value, err := splitFieldPair(pair)
		if err != nil {
			return err
		}
		record.SetField(name, models.PasswordField(value))
	}
	return nil
}

func splitFieldPair(pair string) (name, value string, err error) {
	name, value, ok := strings.Cut(pair, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("invalid field %q: expected name=value", pair)
	}
	return strings.TrimSpace(name), value, nil
}
